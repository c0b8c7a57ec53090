package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the leadroute library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// "No eligible candidate" is deliberately not an error: AutoAssign reports it as a
// nil assignment.

// Engine errors - Public API errors returned by the Engine.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRosterSourceRequired is returned when the roster source is nil.
	ErrRosterSourceRequired = errors.New("roster source is required")

	// ErrInvalidWorkItem is returned when a work item fails boundary validation.
	ErrInvalidWorkItem = errors.New("invalid work item")

	// ErrDecisionTimeout is returned when the caller's context expired before a decision was made.
	ErrDecisionTimeout = errors.New("timeout before decision")

	// ErrSameWorker is returned when a reassignment names the same worker on both sides.
	ErrSameWorker = errors.New("reassignment source and target are the same worker")
)

// Registry errors - Worker store errors.
var (
	// ErrWorkerNotFound is returned by query-by-id operations for unknown workers.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrInvalidWorker is returned when a roster entry is malformed.
	ErrInvalidWorker = errors.New("invalid worker")

	// ErrCapacityExhausted is returned when a transfer target has no remaining capacity.
	ErrCapacityExhausted = errors.New("worker capacity exhausted")
)

// Rule errors - Rule configuration errors.
var (
	// ErrInvalidRule is returned when a rule group is malformed.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrUnknownRuleGroup is returned when an update names a rule group that does not exist.
	ErrUnknownRuleGroup = errors.New("unknown rule group")
)

// Lifecycle errors of the roster watcher and the intake consumer.
var (
	// ErrWatcherAlreadyStarted is returned when Start is called on a running watcher.
	ErrWatcherAlreadyStarted = errors.New("watcher already started")

	// ErrWatcherNotStarted is returned when Stop is called before Start.
	ErrWatcherNotStarted = errors.New("watcher not started")

	// ErrWatcherAlreadyStopped is returned when Start is called on a stopped watcher.
	ErrWatcherAlreadyStopped = errors.New("watcher already stopped")
)

// Audit errors - Decision publishing errors.
var (
	// ErrPublishFailed is returned when publishing a decision record to NATS KV fails.
	ErrPublishFailed = errors.New("failed to publish decision record")
)

// ConfigurationError reports a malformed rule group.
//
// A ConfigurationError only affects its own group: other groups of the same update
// are still applied.
type ConfigurationError struct {
	// Group is the offending rule group key.
	Group RuleKind

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rule group %q: %v", e.Group, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is matches ErrInvalidRule so callers can test the category without errors.As.
func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalidRule }

// NotFoundError reports an unknown worker id passed to a query-by-id operation.
type NotFoundError struct {
	WorkerID string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("worker %q not found", e.WorkerID)
}

// Is matches ErrWorkerNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrWorkerNotFound }

// ValidationError reports a malformed input shape at the engine boundary.
type ValidationError struct {
	WorkItemID string
	Field      string
	Reason     string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("work item %q: field %s %s", e.WorkItemID, e.Field, e.Reason)
}

// Is matches ErrInvalidWorkItem.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidWorkItem }
