package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called concurrently and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	DecisionMetrics
	RegistryMetrics
	RuleMetrics
}

// Decision outcomes recorded by RecordDecision.
const (
	OutcomeAssigned    = "assigned"
	OutcomeNoCandidate = "no_candidate"
	OutcomeRejected    = "rejected"
)

// DecisionMetrics defines metrics for assignment decisions.
type DecisionMetrics interface {
	// RecordDecision records an auto-assignment outcome.
	//
	// Parameters:
	//   - outcome: "assigned", "no_candidate" or "rejected"
	//   - duration: Decision latency in seconds
	RecordDecision(outcome string, duration float64)

	// RecordCandidates records the size of the availability-filtered candidate set.
	RecordCandidates(count int)

	// RecordReassignment records a reassignment attempt.
	RecordReassignment(success bool)
}

// RegistryMetrics defines metrics for worker capacity bookkeeping.
type RegistryMetrics interface {
	// RecordWorkerLoad sets the current load gauges of a worker.
	RecordWorkerLoad(workerID string, load, capacity int)

	// RecordRosterSize sets the number of workers in the registry.
	RecordRosterSize(count int)
}

// RuleMetrics defines metrics for rule configuration changes.
type RuleMetrics interface {
	// RecordRuleUpdate records an attempted rule group update.
	//
	// Parameters:
	//   - group: Rule group key
	//   - accepted: false when the group was rejected as malformed
	RecordRuleUpdate(group string, accepted bool)
}
