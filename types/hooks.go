package types

import "context"

// Hooks defines callbacks for routing events.
//
// All hooks are optional. They run synchronously on the caller's goroutine after the
// decision has been committed and never while the engine holds a lock. Hook errors are
// logged but do not fail the decision.
//
// Example:
//
//	hooks := &leadroute.Hooks{
//	    OnAssigned: func(ctx context.Context, a leadroute.Assignment) error {
//	        return repo.SaveAssignment(ctx, a)
//	    },
//	}
type Hooks struct {
	// OnAssigned is called after a work item was assigned and the load committed.
	OnAssigned func(ctx context.Context, a Assignment) error

	// OnReassigned is called after a reassignment was committed.
	OnReassigned func(ctx context.Context, r Reassignment) error

	// OnNoCandidate is called when no eligible worker exists for a work item.
	OnNoCandidate func(ctx context.Context, item WorkItem) error

	// OnError is called when a hook fails or a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
