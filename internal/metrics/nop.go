// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/arloliu/leadroute/types"

// NopMetrics discards all metrics.
type NopMetrics struct{}

var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a no-op metrics collector.
//
// Example:
//
//	engine, err := leadroute.NewEngine(&cfg, src, leadroute.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// DecisionMetrics implementation

// RecordDecision discards the decision metric.
func (n *NopMetrics) RecordDecision(_ /* outcome */ string, _ /* duration */ float64) {}

// RecordCandidates discards the candidate count.
func (n *NopMetrics) RecordCandidates(_ /* count */ int) {}

// RecordReassignment discards the reassignment metric.
func (n *NopMetrics) RecordReassignment(_ /* success */ bool) {}

// RegistryMetrics implementation

// RecordWorkerLoad discards the load gauges.
func (n *NopMetrics) RecordWorkerLoad(_ /* workerID */ string, _ /* load */, _ /* capacity */ int) {}

// RecordRosterSize discards the roster size.
func (n *NopMetrics) RecordRosterSize(_ /* count */ int) {}

// RuleMetrics implementation

// RecordRuleUpdate discards the rule update metric.
func (n *NopMetrics) RecordRuleUpdate(_ /* group */ string, _ /* accepted */ bool) {}
