package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/leadroute/types"
)

func TestNewNop(t *testing.T) {
	h := NewNop()
	ctx := context.Background()

	require.NoError(t, h.OnAssigned(ctx, types.Assignment{WorkerID: "agent_001"}))
	require.NoError(t, h.OnReassigned(ctx, types.Reassignment{From: "agent_001", To: "agent_002"}))
	require.NoError(t, h.OnNoCandidate(ctx, types.WorkItem{ID: "lead-1"}))
	require.NoError(t, h.OnError(ctx, context.Canceled))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		h := Fill(nil)
		require.NotNil(t, h.OnAssigned)
		require.NotNil(t, h.OnReassigned)
		require.NotNil(t, h.OnNoCandidate)
		require.NotNil(t, h.OnError)
	})

	t.Run("keeps provided callbacks", func(t *testing.T) {
		sentinel := errors.New("saved")
		h := Fill(&types.Hooks{
			OnAssigned: func(context.Context, types.Assignment) error { return sentinel },
		})

		require.ErrorIs(t, h.OnAssigned(context.Background(), types.Assignment{}), sentinel)
		require.NotNil(t, h.OnError)
		require.NoError(t, h.OnError(context.Background(), sentinel))
	})
}
