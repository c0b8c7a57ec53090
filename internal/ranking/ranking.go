// Package ranking scores candidate workers against a work item and orders them.
//
// Scoring is a pure function of the work item, the derived territory and the worker
// snapshot. It never reads the clock or any shared state.
package ranking

import (
	"slices"

	"github.com/arloliu/leadroute/types"
)

// Reason strings attached to scored candidates.
const (
	ReasonHighCapacity = "High capacity"
	ReasonTerritory    = "Territory match"
	ReasonSpecialty    = "Property type specialist"
	ReasonLanguage     = "Language match"
	ReasonSenior       = "Senior agent for high-value lead"
)

// Weights are the terms of the composite match score.
type Weights struct {
	Capacity          float64
	Territory         float64
	Specialty         float64
	Language          float64
	Senior            float64
	SeniorMinScore    int
	HighCapacityRatio float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Capacity:          30,
		Territory:         20,
		Specialty:         25,
		Language:          15,
		Senior:            10,
		SeniorMinScore:    70,
		HighCapacityRatio: 0.5,
	}
}

// Candidate is a scored worker.
type Candidate struct {
	Worker  types.Worker
	Score   float64
	Reasons []string

	// Order is the position of the worker in the discovery order.
	Order int
}

// Ranker scores and sorts candidates.
type Ranker struct {
	weights Weights
}

// New creates a ranker with the given weights.
func New(w Weights) *Ranker {
	return &Ranker{weights: w}
}

// Score computes the match score of one worker for the item.
//
// Parameters:
//   - item: Work item being routed
//   - territory: Territory derived from the item location
//   - w: Worker snapshot
//
// Returns:
//   - float64: Composite match score, not clamped
//   - []string: Reasons for every term that fired, in term order
func (r *Ranker) Score(item types.WorkItem, territory string, w types.Worker) (float64, []string) {
	var reasons []string

	ratio := 1 - w.Utilization()
	score := ratio * r.weights.Capacity
	if ratio > r.weights.HighCapacityRatio {
		reasons = append(reasons, ReasonHighCapacity)
	}

	if w.InTerritory(territory) {
		score += r.weights.Territory
		reasons = append(reasons, ReasonTerritory)
	}
	if w.HasSpecialty(item.PropertyType) {
		score += r.weights.Specialty
		reasons = append(reasons, ReasonSpecialty)
	}
	if w.SpeaksLanguage(item.PreferredLanguage) {
		score += r.weights.Language
		reasons = append(reasons, ReasonLanguage)
	}
	if item.Score > r.weights.SeniorMinScore && w.Level == types.LevelSenior {
		score += r.weights.Senior
		reasons = append(reasons, ReasonSenior)
	}

	return score, reasons
}

// Rank scores the workers and sorts them by descending score.
//
// The sort is stable: equal scores keep discovery order.
func (r *Ranker) Rank(item types.WorkItem, territory string, workers []types.Worker) []Candidate {
	ranked := make([]Candidate, len(workers))
	for i, w := range workers {
		score, reasons := r.Score(item, territory, w)
		ranked[i] = Candidate{Worker: w, Score: score, Reasons: reasons, Order: i}
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return ranked
}
