package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopLogger(t *testing.T) {
	l := NewNop()

	require.NotPanics(t, func() {
		l.Debug("decision", "work_item_id", "lead-1")
		l.Info("")
		l.Warn("no candidate", "work_item_id")
		l.Error("hook failed", nil)
		l.Fatal("must not exit", "k1", "v1", "k2", "v2")
	})
}

func TestFormatKeyValues(t *testing.T) {
	require.Empty(t, formatKeyValues(nil))
	require.Equal(t, "worker_id=agent_001 load=3", formatKeyValues([]any{"worker_id", "agent_001", "load", 3}))
	require.Equal(t, "worker_id=<missing>", formatKeyValues([]any{"worker_id"}))
}

func TestTestLogger(t *testing.T) {
	l := NewTest(t)

	require.NotPanics(t, func() {
		l.Debug("debug", "k", "v")
		l.Info("info")
		l.Warn("warn", "dangling")
		l.Error("error", "err", "boom")
	})
}
