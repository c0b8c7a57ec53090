// Package finder implements candidate discovery: the union of the worker ids contributed
// by every enabled rule, resolved against a roster snapshot and filtered by availability.
package finder

import (
	"github.com/arloliu/leadroute/rule"
	"github.com/arloliu/leadroute/types"
)

// Result is the outcome of candidate discovery.
type Result struct {
	// Territory is the territory derived from the work item location.
	Territory string

	// Candidates are the available workers in discovery order: rule evaluation order
	// first, then the order each rule contributed them.
	Candidates []types.Worker

	// Matched is the size of the rule union before availability filtering.
	Matched int
}

// Finder discovers candidate workers for work items.
type Finder struct {
	store  types.WorkerStore
	logger types.Logger
}

// New creates a finder reading from the given store.
func New(store types.WorkerStore, logger types.Logger) *Finder {
	return &Finder{store: store, logger: logger}
}

// Find returns the deduplicated, availability-filtered candidates for the item.
//
// All rules read the same roster snapshot. Ids that do not resolve to a worker in the
// snapshot are dropped. An empty candidate list is a valid outcome.
//
// Parameters:
//   - item: Work item to route
//   - rules: Rule set in effect for this decision
//
// Returns:
//   - Result: Derived territory and candidates in discovery order
func (f *Finder) Find(item types.WorkItem, rules *rule.Set) Result {
	roster := f.store.Snapshot()
	res := Result{Territory: rules.Territory.Detect(item.Location)}

	seen := make(map[string]struct{})
	for _, r := range rules.EnabledRules() {
		for _, id := range r.Contribute(item, roster) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			w, ok := roster.Worker(id)
			if !ok {
				f.logger.Debug("rule references unknown worker", "rule", r.Kind(), "worker_id", id)
				continue
			}
			res.Matched++

			if !f.store.IsAvailable(w) {
				continue
			}
			res.Candidates = append(res.Candidates, w)
		}
	}

	return res
}
