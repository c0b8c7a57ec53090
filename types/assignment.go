package types

import "time"

// Assignment is the decision produced by a successful auto-assignment.
//
// The engine does not store assignments; persisting them is the caller's concern
// (see the audit package for a JetStream KV publisher).
type Assignment struct {
	// ID uniquely identifies this decision.
	ID string `json:"id" yaml:"id"`

	// WorkItemID is the id of the routed work item.
	WorkItemID string `json:"workItemId" yaml:"workItemId"`

	// WorkerID and WorkerName identify the selected worker.
	WorkerID   string `json:"workerId" yaml:"workerId"`
	WorkerName string `json:"workerName" yaml:"workerName"`

	// MatchScore is the composite ranking score of the selected worker.
	MatchScore float64 `json:"matchScore" yaml:"matchScore"`

	// Reasons lists the scoring terms that fired for the selected worker.
	Reasons []string `json:"reasons" yaml:"reasons"`

	// Territory is the territory derived from the work item location ("" if none).
	Territory string `json:"territory,omitempty" yaml:"territory,omitempty"`

	// RoundRobin is true when the winner was picked from a near-tie group.
	RoundRobin bool `json:"roundRobin" yaml:"roundRobin"`

	// Timestamp is when the decision was committed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Reassignment is the audit record produced when a work item moves between workers.
type Reassignment struct {
	ID         string    `json:"id" yaml:"id"`
	WorkItemID string    `json:"workItemId" yaml:"workItemId"`
	From       string    `json:"from" yaml:"from"`
	To         string    `json:"to" yaml:"to"`
	FromName   string    `json:"fromName,omitempty" yaml:"fromName,omitempty"`
	ToName     string    `json:"toName,omitempty" yaml:"toName,omitempty"`
	Reason     string    `json:"reason" yaml:"reason"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Capacity summarizes the capacity counters of a worker.
type Capacity struct {
	Max       int `json:"max" yaml:"max"`
	Current   int `json:"current" yaml:"current"`
	Available int `json:"available" yaml:"available"`
}

// WorkerSummary is the per-worker entry of the routing rules report.
type WorkerSummary struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Level    Level    `json:"level" yaml:"level"`
	Capacity Capacity `json:"capacity" yaml:"capacity"`
}

// NewWorkerSummary builds the summary entry for a worker.
func NewWorkerSummary(w Worker) WorkerSummary {
	return WorkerSummary{
		ID:    w.ID,
		Name:  w.Name,
		Level: w.Level,
		Capacity: Capacity{
			Max:       w.MaxCapacity,
			Current:   w.CurrentLoad,
			Available: w.AvailableCapacity(),
		},
	}
}

// Workload is the capacity report for a single worker.
type Workload struct {
	WorkerID           string   `json:"workerId" yaml:"workerId"`
	WorkerName         string   `json:"workerName" yaml:"workerName"`
	MaxCapacity        int      `json:"maxCapacity" yaml:"maxCapacity"`
	CurrentLoad        int      `json:"currentLoad" yaml:"currentLoad"`
	AvailableCapacity  int      `json:"availableCapacity" yaml:"availableCapacity"`
	UtilizationPercent int      `json:"utilizationPercent" yaml:"utilizationPercent"`
	Specialties        []string `json:"specialties" yaml:"specialties"`
	Territories        []string `json:"territories" yaml:"territories"`
	Languages          []string `json:"languages" yaml:"languages"`
}

// NewWorkload builds the workload report for a worker.
func NewWorkload(w Worker) Workload {
	w = w.Clone()

	return Workload{
		WorkerID:           w.ID,
		WorkerName:         w.Name,
		MaxCapacity:        w.MaxCapacity,
		CurrentLoad:        w.CurrentLoad,
		AvailableCapacity:  w.AvailableCapacity(),
		UtilizationPercent: w.UtilizationPercent(),
		Specialties:        w.Specialties,
		Territories:        w.Territories,
		Languages:          w.Languages,
	}
}

// WorkerUtilization is a worker entry of the balance report.
type WorkerUtilization struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	UtilizationPercent int    `json:"utilizationPercent" yaml:"utilizationPercent"`
}

// BalanceReport is the read-only workload diagnostic.
type BalanceReport struct {
	OverloadedWorkers  []WorkerUtilization `json:"overloadedWorkers" yaml:"overloadedWorkers"`
	UnderloadedWorkers []WorkerUtilization `json:"underloadedWorkers" yaml:"underloadedWorkers"`
	RecommendedAction  string              `json:"recommendedAction" yaml:"recommendedAction"`
}
