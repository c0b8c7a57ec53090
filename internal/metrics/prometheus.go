package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/leadroute/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing one is
// free and a registerer that is never exercised stays empty.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	decisions         *prometheus.CounterVec
	decisionLatency   prometheus.Histogram
	candidates        prometheus.Histogram
	reassignments     *prometheus.CounterVec
	workerLoad        *prometheus.GaugeVec
	workerCapacity    *prometheus.GaugeVec
	workerUtilization *prometheus.GaugeVec
	rosterSize        prometheus.Gauge
	ruleUpdates       *prometheus.CounterVec
}

var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Registerer to use (prometheus.DefaultRegisterer if nil)
//   - namespace: Metric namespace ("leadroute" if empty)
//
// Returns:
//   - *PrometheusCollector: MetricsCollector implementation
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "leadroute"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "decisions_total",
			Help:      "Total auto-assignment decisions by outcome.",
		}, []string{"outcome"})
		p.decisionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "decision_duration_seconds",
			Help:      "Latency of auto-assignment decisions in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12), // 50us .. ~100ms
		})
		p.candidates = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "candidates",
			Help:      "Number of available candidates per decision.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		})
		p.reassignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "reassignments_total",
			Help:      "Total reassignment attempts by result.",
		}, []string{"success"})

		p.workerLoad = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "worker_load",
			Help:      "Current number of work items held by a worker.",
		}, []string{"worker_id"})
		p.workerCapacity = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "worker_capacity",
			Help:      "Maximum number of work items a worker may hold.",
		}, []string{"worker_id"})
		p.workerUtilization = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "worker_utilization_ratio",
			Help:      "Worker load divided by capacity.",
		}, []string{"worker_id"})
		p.rosterSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "workers",
			Help:      "Number of workers in the registry.",
		})

		p.ruleUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rules",
			Name:      "updates_total",
			Help:      "Total rule group updates by group and result.",
		}, []string{"group", "result"})

		p.reg.MustRegister(
			p.decisions,
			p.decisionLatency,
			p.candidates,
			p.reassignments,
			p.workerLoad,
			p.workerCapacity,
			p.workerUtilization,
			p.rosterSize,
			p.ruleUpdates,
		)
	})
}

// RecordDecision increments the outcome counter and observes the latency.
func (p *PrometheusCollector) RecordDecision(outcome string, duration float64) {
	p.ensureRegistered()
	p.decisions.WithLabelValues(outcome).Inc()
	p.decisionLatency.Observe(duration)
}

// RecordCandidates observes the candidate set size.
func (p *PrometheusCollector) RecordCandidates(count int) {
	p.ensureRegistered()
	p.candidates.Observe(float64(count))
}

// RecordReassignment increments the reassignment counter.
func (p *PrometheusCollector) RecordReassignment(success bool) {
	p.ensureRegistered()
	p.reassignments.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// RecordWorkerLoad sets the load, capacity and utilization gauges of a worker.
func (p *PrometheusCollector) RecordWorkerLoad(workerID string, load, capacity int) {
	p.ensureRegistered()
	p.workerLoad.WithLabelValues(workerID).Set(float64(load))
	p.workerCapacity.WithLabelValues(workerID).Set(float64(capacity))

	ratio := 1.0
	if capacity > 0 {
		ratio = float64(load) / float64(capacity)
	}
	p.workerUtilization.WithLabelValues(workerID).Set(ratio)
}

// RecordRosterSize sets the roster size gauge.
func (p *PrometheusCollector) RecordRosterSize(count int) {
	p.ensureRegistered()
	p.rosterSize.Set(float64(count))
}

// RecordRuleUpdate increments the rule update counter.
func (p *PrometheusCollector) RecordRuleUpdate(group string, accepted bool) {
	p.ensureRegistered()
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	p.ruleUpdates.WithLabelValues(group, result).Inc()
}
