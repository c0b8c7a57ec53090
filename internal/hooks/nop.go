// Package hooks provides the default routing hooks.
package hooks

import (
	"context"

	"github.com/arloliu/leadroute/types"
)

// NopHooks implements every hook as a no-op.
//
// The engine fills unset callbacks from here so the decision path never nil-checks.
type NopHooks struct{}

var (
	_ func(context.Context, types.Assignment) error   = (*NopHooks)(nil).OnAssigned
	_ func(context.Context, types.Reassignment) error = (*NopHooks)(nil).OnReassigned
	_ func(context.Context, types.WorkItem) error     = (*NopHooks)(nil).OnNoCandidate
	_ func(context.Context, error) error              = (*NopHooks)(nil).OnError
)

// NewNop returns hooks whose callbacks all do nothing.
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnAssigned:    h.OnAssigned,
		OnReassigned:  h.OnReassigned,
		OnNoCandidate: h.OnNoCandidate,
		OnError:       h.OnError,
	}
}

// Fill returns h with every nil callback replaced by its no-op.
func Fill(h *types.Hooks) types.Hooks {
	nop := NewNop()
	if h == nil {
		return nop
	}

	out := *h
	if out.OnAssigned == nil {
		out.OnAssigned = nop.OnAssigned
	}
	if out.OnReassigned == nil {
		out.OnReassigned = nop.OnReassigned
	}
	if out.OnNoCandidate == nil {
		out.OnNoCandidate = nop.OnNoCandidate
	}
	if out.OnError == nil {
		out.OnError = nop.OnError
	}

	return out
}

// OnAssigned is a no-op.
func (h *NopHooks) OnAssigned(_ context.Context, _ types.Assignment) error {
	return nil
}

// OnReassigned is a no-op.
func (h *NopHooks) OnReassigned(_ context.Context, _ types.Reassignment) error {
	return nil
}

// OnNoCandidate is a no-op.
func (h *NopHooks) OnNoCandidate(_ context.Context, _ types.WorkItem) error {
	return nil
}

// OnError is a no-op.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
