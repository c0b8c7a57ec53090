package types

import "context"

// WorkerStore owns worker records and their capacity counters.
//
// All methods must be safe for concurrent use. Load mutations are atomic per record
// and clamped to [0, MaxCapacity]; unknown ids are tolerated as no-ops.
type WorkerStore interface {
	// Snapshot returns a consistent, immutable roster snapshot.
	Snapshot() *Roster

	// Get returns a copy of the worker record.
	Get(id string) (Worker, bool)

	// FindByTerritory returns workers registered under the territory.
	FindByTerritory(territory string) []Worker

	// FindByLevel returns workers at exactly the given level.
	FindByLevel(level Level) []Worker

	// IsAvailable reports whether the worker can receive work right now.
	IsAvailable(w Worker) bool

	// IncrementLoad adds one unit of load. Returns false if the worker is unknown or full.
	IncrementLoad(id string) bool

	// DecrementLoad removes one unit of load. Returns false if the worker is unknown or idle.
	DecrementLoad(id string) bool

	// Transfer moves one unit of load from one worker to another as a single step.
	Transfer(from, to string) (TransferResult, error)

	// Sync replaces the roster attributes from a fresh snapshot.
	Sync(workers []Worker) error
}

// TransferResult describes which sides of a transfer were applied.
type TransferResult struct {
	// Decremented is true when the source worker's load was decreased.
	Decremented bool

	// Incremented is true when the target worker's load was increased.
	Incremented bool

	// From and To are the worker records after the transfer (zero value if unknown).
	From Worker
	To   Worker
}

// RosterSource supplies worker roster snapshots.
//
// The engine does not own worker persistence; a source is polled on Refresh.
type RosterSource interface {
	// ListWorkers returns the current roster snapshot.
	ListWorkers(ctx context.Context) ([]Worker, error)
}
