package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/leadroute/types"
)

// record is one arena slot. All fields except lockKey are guarded by mu.
type record struct {
	mu       sync.Mutex
	lockKey  uint64 // immutable; orders lock acquisition in Transfer
	position uint64 // roster order, rewritten by Sync
	removed  bool
	worker   types.Worker
}

// Registry is the in-memory WorkerStore.
type Registry struct {
	records *xsync.Map[string, *record]
	keys    atomic.Uint64
	syncMu  sync.Mutex

	clock   func() time.Time
	hours   WorkingHours
	logger  types.Logger
	metrics types.RegistryMetrics
}

var _ types.WorkerStore = (*Registry)(nil)

// New creates an empty registry.
//
// Parameters:
//   - opts: Optional clock, working hours, logger and metrics
//
// Returns:
//   - *Registry: Empty registry; populate it with Sync
func New(opts ...Option) *Registry {
	r := defaults()
	r.records = xsync.NewMap[string, *record]()
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Sync replaces the roster with a fresh snapshot.
//
// Attributes of existing workers are replaced while their live load is kept (clamped
// to the new capacity); new workers start with the snapshot load clamped to
// [0, MaxCapacity]; workers absent from the snapshot are removed. Roster order follows
// the snapshot. Malformed entries and duplicate ids are skipped and reported.
//
// Parameters:
//   - workers: Roster snapshot in roster order
//
// Returns:
//   - error: errors.Join of the skipped entries' errors, nil if all were applied
func (r *Registry) Sync(workers []types.Worker) error {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	var errs []error
	seen := make(map[string]struct{}, len(workers))
	for pos, w := range workers {
		if err := w.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[w.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate worker id %s", types.ErrInvalidWorker, w.ID))
			continue
		}
		seen[w.ID] = struct{}{}

		w = w.Clone()
		w.CurrentLoad = clamp(w.CurrentLoad, w.MaxCapacity)

		fresh := &record{lockKey: r.keys.Add(1), position: uint64(pos), worker: w}
		rec, loaded := r.records.LoadOrStore(w.ID, fresh)
		if !loaded {
			continue
		}

		rec.mu.Lock()
		live := rec.worker.CurrentLoad
		rec.worker = w
		rec.worker.CurrentLoad = clamp(live, w.MaxCapacity)
		rec.position = uint64(pos)
		rec.mu.Unlock()
	}

	var stale []string
	r.records.Range(func(id string, _ *record) bool {
		if _, ok := seen[id]; !ok {
			stale = append(stale, id)
		}

		return true
	})
	for _, id := range stale {
		if rec, ok := r.records.LoadAndDelete(id); ok {
			rec.mu.Lock()
			rec.removed = true
			rec.mu.Unlock()
		}
	}

	size := r.records.Size()
	r.metrics.RecordRosterSize(size)
	r.logger.Debug("roster synchronized", "workers", size, "removed", len(stale), "skipped", len(errs))

	return errors.Join(errs...)
}

// Snapshot returns an immutable roster snapshot in roster order.
//
// All records are locked together in lockKey order, the order Transfer uses, so a
// transfer is either fully visible in the snapshot or not at all and the aggregate
// load never drifts.
func (r *Registry) Snapshot() *types.Roster {
	type entry struct {
		position uint64
		worker   types.Worker
	}

	recs := make([]*record, 0, r.records.Size())
	r.records.Range(func(_ string, rec *record) bool {
		recs = append(recs, rec)
		return true
	})
	slices.SortFunc(recs, func(a, b *record) int { return cmp.Compare(a.lockKey, b.lockKey) })

	for _, rec := range recs {
		rec.mu.Lock()
	}
	entries := make([]entry, 0, len(recs))
	for _, rec := range recs {
		if !rec.removed {
			entries = append(entries, entry{position: rec.position, worker: rec.worker.Clone()})
		}
	}
	for i := len(recs) - 1; i >= 0; i-- {
		recs[i].mu.Unlock()
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.position, b.position); c != 0 {
			return c
		}

		return cmp.Compare(a.worker.ID, b.worker.ID)
	})

	workers := make([]types.Worker, len(entries))
	for i, e := range entries {
		workers[i] = e.worker
	}

	return types.NewRoster(workers)
}

// Get returns a copy of the worker record.
func (r *Registry) Get(id string) (types.Worker, bool) {
	rec, ok := r.records.Load(id)
	if !ok {
		return types.Worker{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.removed {
		return types.Worker{}, false
	}

	return rec.worker.Clone(), true
}

// FindByTerritory returns workers registered under the territory, in roster order.
func (r *Registry) FindByTerritory(territory string) []types.Worker {
	return r.Snapshot().FindByTerritory(territory)
}

// FindByLevel returns workers at exactly the given level, in roster order.
func (r *Registry) FindByLevel(level types.Level) []types.Worker {
	return r.Snapshot().FindByLevel(level)
}

// IsAvailable reports whether the worker has spare capacity and the clock is inside
// the working hours window.
func (r *Registry) IsAvailable(w types.Worker) bool {
	return w.HasCapacity() && r.hours.Contains(r.clock())
}

// IncrementLoad adds one unit of load to the worker.
//
// Returns false, without error, when the worker is unknown or already at capacity.
func (r *Registry) IncrementLoad(id string) bool {
	rec, ok := r.records.Load(id)
	if !ok {
		r.logger.Debug("increment on unknown worker ignored", "worker_id", id)
		return false
	}

	rec.mu.Lock()
	applied := rec.increment()
	w := rec.worker
	rec.mu.Unlock()

	if applied {
		r.metrics.RecordWorkerLoad(w.ID, w.CurrentLoad, w.MaxCapacity)
	}

	return applied
}

// DecrementLoad removes one unit of load from the worker.
//
// Returns false, without error, when the worker is unknown or has no load.
func (r *Registry) DecrementLoad(id string) bool {
	rec, ok := r.records.Load(id)
	if !ok {
		r.logger.Debug("decrement on unknown worker ignored", "worker_id", id)
		return false
	}

	rec.mu.Lock()
	applied := rec.decrement()
	w := rec.worker
	rec.mu.Unlock()

	if applied {
		r.metrics.RecordWorkerLoad(w.ID, w.CurrentLoad, w.MaxCapacity)
	}

	return applied
}

// Transfer moves one unit of load from one worker to another.
//
// Both records are locked, in a global order, for the whole step, so no observer can
// see the decrement without the increment. A target without spare capacity rejects
// the transfer as a whole. Unknown ids are tolerated: that side is skipped.
//
// Parameters:
//   - from: Worker losing the work item
//   - to: Worker receiving the work item
//
// Returns:
//   - types.TransferResult: Which sides were applied, with post-transfer records
//   - error: types.ErrSameWorker or types.ErrCapacityExhausted
func (r *Registry) Transfer(from, to string) (types.TransferResult, error) {
	if from == to {
		return types.TransferResult{}, types.ErrSameWorker
	}

	src, srcOK := r.records.Load(from)
	dst, dstOK := r.records.Load(to)

	var locked []*record
	if srcOK {
		locked = append(locked, src)
	}
	if dstOK {
		locked = append(locked, dst)
	}
	slices.SortFunc(locked, func(a, b *record) int { return cmp.Compare(a.lockKey, b.lockKey) })
	for _, rec := range locked {
		rec.mu.Lock()
	}
	unlock := func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].mu.Unlock()
		}
	}

	srcLive := srcOK && !src.removed
	dstLive := dstOK && !dst.removed

	if dstLive && !dst.worker.HasCapacity() {
		unlock()
		return types.TransferResult{}, fmt.Errorf("%w: %s is at %d/%d",
			types.ErrCapacityExhausted, to, dst.worker.CurrentLoad, dst.worker.MaxCapacity)
	}

	var res types.TransferResult
	if srcLive {
		res.Decremented = src.decrement()
		res.From = src.worker.Clone()
	}
	if dstLive {
		res.Incremented = dst.increment()
		res.To = dst.worker.Clone()
	}
	unlock()

	if !srcLive {
		r.logger.Warn("transfer source is not registered", "worker_id", from)
	}
	if !dstLive {
		r.logger.Warn("transfer target is not registered", "worker_id", to)
	}
	if res.Decremented {
		r.metrics.RecordWorkerLoad(res.From.ID, res.From.CurrentLoad, res.From.MaxCapacity)
	}
	if res.Incremented {
		r.metrics.RecordWorkerLoad(res.To.ID, res.To.CurrentLoad, res.To.MaxCapacity)
	}

	return res, nil
}

// increment must be called with rec.mu held.
func (rec *record) increment() bool {
	if rec.removed || rec.worker.CurrentLoad >= rec.worker.MaxCapacity {
		return false
	}
	rec.worker.CurrentLoad++

	return true
}

// decrement must be called with rec.mu held.
func (rec *record) decrement() bool {
	if rec.removed || rec.worker.CurrentLoad <= 0 {
		return false
	}
	rec.worker.CurrentLoad--

	return true
}

func clamp(load, capacity int) int {
	return min(max(load, 0), max(capacity, 0))
}
