package registry

import (
	"time"

	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/internal/metrics"
	"github.com/arloliu/leadroute/types"
)

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source used for availability checks.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithWorkingHours sets the availability window.
func WithWorkingHours(w WorkingHours) Option {
	return func(r *Registry) {
		r.hours = w
	}
}

// WithLogger sets the logger.
func WithLogger(l types.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.RegistryMetrics) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

func defaults() *Registry {
	return &Registry{
		clock:   time.Now,
		hours:   DefaultWorkingHours(),
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
	}
}
