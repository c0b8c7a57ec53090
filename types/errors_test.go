package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidConfig,
			ErrRosterSourceRequired,
			ErrInvalidWorkItem,
			ErrDecisionTimeout,
			ErrSameWorker,
			ErrWorkerNotFound,
			ErrInvalidWorker,
			ErrCapacityExhausted,
			ErrInvalidRule,
			ErrUnknownRuleGroup,
			ErrPublishFailed,
			ErrWatcherAlreadyStarted,
			ErrWatcherNotStarted,
			ErrWatcherAlreadyStopped,
		}

		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i == j {
					require.True(t, errors.Is(err1, err2), "error should equal itself: %v", err1)
				} else {
					require.False(t, errors.Is(err1, err2), "errors should be distinct: %v vs %v", err1, err2)
				}
			}
		}
	})

	t.Run("wrapped errors maintain identity", func(t *testing.T) {
		wrapped := fmt.Errorf("refresh failed: %w", ErrInvalidWorker)
		require.ErrorIs(t, wrapped, ErrInvalidWorker)
	})
}

func TestConfigurationError(t *testing.T) {
	cause := errors.New("threshold must not be negative")
	err := error(&ConfigurationError{Group: RuleBudget, Err: cause})

	require.ErrorIs(t, err, ErrInvalidRule)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "budget")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, fmt.Errorf("update: %w", err), &cfgErr)
	require.Equal(t, RuleBudget, cfgErr.Group)
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("workload: %w", &NotFoundError{WorkerID: "agent_404"})

	require.ErrorIs(t, err, ErrWorkerNotFound)
	require.Contains(t, err.Error(), "agent_404")
}

func TestValidationError(t *testing.T) {
	err := WorkItem{ID: "lead-1", Score: 101}.Validate()

	require.ErrorIs(t, err, ErrInvalidWorkItem)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "lead-1", vErr.WorkItemID)
	require.Equal(t, "score", vErr.Field)
}
