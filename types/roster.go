package types

// RosterView is a read-only view of the worker roster used during candidate discovery.
//
// Implementations must return workers in a stable roster order so that candidate
// discovery, and therefore ranking tie-breaks, are deterministic.
type RosterView interface {
	// Workers returns all workers in roster order.
	Workers() []Worker

	// Worker looks up a worker by id.
	Worker(id string) (Worker, bool)

	// FindByTerritory returns workers registered under the territory, in roster order.
	FindByTerritory(territory string) []Worker

	// FindByLevel returns workers at exactly the given level, in roster order.
	FindByLevel(level Level) []Worker
}

// Roster is an immutable, indexed snapshot of workers.
//
// A Roster is safe for concurrent reads. It never changes after construction.
// Lookups return shallow copies: the returned slices are fresh, but each Worker's
// Specialties, Languages and Territories share storage with the snapshot and must not
// be modified. Use Worker.Clone for a value the caller may mutate.
type Roster struct {
	workers     []Worker
	byID        map[string]int
	byTerritory map[string][]int
	byLevel     map[Level][]int
}

var _ RosterView = (*Roster)(nil)

// NewRoster builds an indexed snapshot from the given workers.
//
// Worker order is preserved. Later duplicates of an id are ignored.
//
// Parameters:
//   - workers: Workers in roster order (copied)
//
// Returns:
//   - *Roster: Immutable roster snapshot
func NewRoster(workers []Worker) *Roster {
	r := &Roster{
		workers:     make([]Worker, 0, len(workers)),
		byID:        make(map[string]int, len(workers)),
		byTerritory: make(map[string][]int),
		byLevel:     make(map[Level][]int),
	}

	for _, w := range workers {
		if _, dup := r.byID[w.ID]; dup {
			continue
		}
		idx := len(r.workers)
		r.workers = append(r.workers, w.Clone())
		r.byID[w.ID] = idx
		r.byLevel[w.Level] = append(r.byLevel[w.Level], idx)
		for _, t := range w.Territories {
			r.byTerritory[t] = append(r.byTerritory[t], idx)
		}
	}

	return r
}

// Len returns the number of workers in the roster.
func (r *Roster) Len() int { return len(r.workers) }

// Workers returns all workers in roster order as a fresh slice of shallow copies.
func (r *Roster) Workers() []Worker {
	out := make([]Worker, len(r.workers))
	copy(out, r.workers)

	return out
}

// Worker looks up a worker by id. The result is a shallow copy.
func (r *Roster) Worker(id string) (Worker, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Worker{}, false
	}

	return r.workers[idx], true
}

// FindByTerritory returns workers registered under the territory.
func (r *Roster) FindByTerritory(territory string) []Worker {
	return r.pick(r.byTerritory[territory])
}

// FindByLevel returns workers at exactly the given level.
func (r *Roster) FindByLevel(level Level) []Worker {
	return r.pick(r.byLevel[level])
}

func (r *Roster) pick(idxs []int) []Worker {
	if len(idxs) == 0 {
		return nil
	}

	out := make([]Worker, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, r.workers[i])
	}

	return out
}
