// Package source provides roster source implementations.
//
// Roster sources supply worker snapshots to the engine. The package includes:
//
//   - Static: fixed in-memory roster, optionally loaded from a YAML file
//   - KV: roster stored in a NATS JetStream KV bucket, one key per worker, kept in a
//     local cache by a watcher
//
// Custom sources can be implemented by satisfying the types.RosterSource interface.
package source
