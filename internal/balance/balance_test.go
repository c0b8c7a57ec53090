package balance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/leadroute/types"
)

func w(id string, load, capacity int) types.Worker {
	return types.Worker{ID: id, Name: "Agent " + id, Level: types.LevelMid, MaxCapacity: capacity, CurrentLoad: load}
}

func TestReport(t *testing.T) {
	report := Report([]types.Worker{w("busy", 46, 50), w("idle", 10, 50), w("steady", 35, 50)}, DefaultThresholds())

	require.Equal(t, []types.WorkerUtilization{{ID: "busy", Name: "Agent busy", UtilizationPercent: 92}}, report.OverloadedWorkers)
	require.Equal(t, []types.WorkerUtilization{{ID: "idle", Name: "Agent idle", UtilizationPercent: 20}}, report.UnderloadedWorkers)
	require.NotEmpty(t, report.RecommendedAction)
	require.Contains(t, report.RecommendedAction, "1 overloaded")
}

func TestReport_Boundaries(t *testing.T) {
	report := Report([]types.Worker{w("ninety", 45, 50), w("half", 25, 50)}, DefaultThresholds())

	require.Empty(t, report.OverloadedWorkers, "exactly 90% is not overloaded")
	require.Empty(t, report.UnderloadedWorkers, "exactly 50% is not underloaded")
	require.Equal(t, ActionBalanced, report.RecommendedAction)
}

func TestReport_Actions(t *testing.T) {
	require.Equal(t, ActionNoAgents, Report(nil, DefaultThresholds()).RecommendedAction)
	require.Equal(t, ActionAddCapacity, Report([]types.Worker{w("a", 50, 50), w("b", 40, 50)}, DefaultThresholds()).RecommendedAction)
	require.Equal(t, ActionBalanced, Report([]types.Worker{w("a", 2, 50)}, DefaultThresholds()).RecommendedAction)
}

func TestReport_ZeroCapacityIsOverloaded(t *testing.T) {
	report := Report([]types.Worker{w("none", 0, 0)}, DefaultThresholds())

	require.Len(t, report.OverloadedWorkers, 1)
	require.Equal(t, 100, report.OverloadedWorkers[0].UtilizationPercent)
}

func TestReport_CustomThresholds(t *testing.T) {
	report := Report([]types.Worker{w("a", 8, 10), w("b", 3, 10)}, Thresholds{Overloaded: 0.75, Underloaded: 0.25})

	require.Len(t, report.OverloadedWorkers, 1)
	require.Empty(t, report.UnderloadedWorkers)
}
