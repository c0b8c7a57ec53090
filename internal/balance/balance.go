// Package balance classifies workers by utilization. It never moves work itself.
package balance

import (
	"fmt"

	"github.com/arloliu/leadroute/types"
)

// Thresholds are the utilization ratios used for classification.
type Thresholds struct {
	// Overloaded is the ratio above which a worker is overloaded.
	Overloaded float64

	// Underloaded is the ratio below which a worker is underloaded.
	Underloaded float64
}

// DefaultThresholds returns 90% overloaded and 50% underloaded.
func DefaultThresholds() Thresholds {
	return Thresholds{Overloaded: 0.9, Underloaded: 0.5}
}

// Recommended actions.
const (
	ActionBalanced    = "Workload is well balanced"
	ActionAddCapacity = "Consider adding capacity: no underloaded agents can absorb leads from overloaded agents"
	ActionNoAgents    = "No agents registered"

	actionReassign = "Consider reassigning leads from %d overloaded agents to %d underloaded agents"
)

// Report classifies every worker of the roster.
//
// Workers without capacity count as fully utilized.
//
// Parameters:
//   - workers: Roster snapshot in roster order
//   - th: Classification thresholds
//
// Returns:
//   - types.BalanceReport: Classified workers in roster order and a recommended action
func Report(workers []types.Worker, th Thresholds) types.BalanceReport {
	report := types.BalanceReport{
		OverloadedWorkers:  []types.WorkerUtilization{},
		UnderloadedWorkers: []types.WorkerUtilization{},
	}

	for _, w := range workers {
		u := w.Utilization()
		entry := types.WorkerUtilization{ID: w.ID, Name: w.Name, UtilizationPercent: w.UtilizationPercent()}
		switch {
		case u > th.Overloaded:
			report.OverloadedWorkers = append(report.OverloadedWorkers, entry)
		case u < th.Underloaded:
			report.UnderloadedWorkers = append(report.UnderloadedWorkers, entry)
		}
	}

	over, under := len(report.OverloadedWorkers), len(report.UnderloadedWorkers)
	switch {
	case len(workers) == 0:
		report.RecommendedAction = ActionNoAgents
	case over == 0:
		report.RecommendedAction = ActionBalanced
	case under == 0:
		report.RecommendedAction = ActionAddCapacity
	default:
		report.RecommendedAction = fmt.Sprintf(actionReassign, over, under)
	}

	return report
}
