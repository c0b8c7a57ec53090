package leadroute

import "time"

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

type engineOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
	clock   func() time.Time
	store   WorkerStore
}

// WithHooks sets routing event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions; nil callbacks are ignored
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	hooks := &leadroute.Hooks{
//	    OnAssigned: func(ctx context.Context, a leadroute.Assignment) error {
//	        return notifyAgent(ctx, a.WorkerID, a.WorkItemID)
//	    },
//	}
//	engine, err := leadroute.NewEngine(&cfg, src, leadroute.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *engineOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Example:
//
//	collector := leadroute.NewPrometheusMetrics(prometheus.DefaultRegisterer, "leadroute")
//	engine, err := leadroute.NewEngine(&cfg, src, leadroute.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	engine, err := leadroute.NewEngine(&cfg, src, leadroute.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithClock sets the time source used for working hours and record timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}

// WithStore replaces the built-in worker registry.
//
// The store is responsible for its own availability policy; WorkingHours and WithClock
// do not affect it.
func WithStore(store WorkerStore) Option {
	return func(o *engineOptions) {
		o.store = store
	}
}
