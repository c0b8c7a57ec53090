package leadroute

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/leadroute/internal/metrics"
)

// NewPrometheusMetrics creates a MetricsCollector exporting to Prometheus.
//
// Collectors are registered on first use, so create one collector per registerer and
// namespace and share it between engines.
//
// Parameters:
//   - reg: Registerer receiving the collectors (prometheus.DefaultRegisterer if nil)
//   - namespace: Metric name prefix ("leadroute" if empty)
//
// Returns:
//   - MetricsCollector: Collector for WithMetrics
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
