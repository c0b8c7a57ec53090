// Package types provides core type definitions and interfaces for the leadroute library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root leadroute package, the rule package and the internal components.
//
// Key types:
//   - WorkItem: Incoming unit of work (a lead) to be routed
//   - Worker: Agent able to receive work, with capacity and attributes
//   - Roster: Immutable, indexed snapshot of workers
//   - Assignment / Reassignment: Decisions produced by the engine
//   - Rule: Candidate contribution capability shared by every rule variant
//   - Logger, MetricsCollector, Hooks: Observability and extension points
package types
