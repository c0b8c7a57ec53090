// Package registry implements the worker registry: the concurrency-safe store of worker
// records and their capacity counters.
//
// Records live in an xsync.Map arena keyed by worker id. Each record carries its own
// mutex, so load mutations on distinct workers never contend and there is no registry
// wide lock on the hot path. Only roster synchronization is serialized.
//
// Invariant: for every record, 0 <= CurrentLoad <= MaxCapacity after any interleaving
// of IncrementLoad, DecrementLoad, Transfer and Sync.
package registry
