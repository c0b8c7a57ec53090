package intake

import (
	"errors"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/types"
)

// Default configuration values for Consumer.
const (
	// DefaultSubject is the default filter subject of the lead consumer.
	DefaultSubject = "leads.>"

	// DefaultDurable is the default durable consumer name.
	DefaultDurable = "leadroute-intake"

	// DefaultBatchSize is the default number of messages to fetch per pull request.
	DefaultBatchSize = 10

	// DefaultFetchTimeout is the default maximum duration to wait for messages.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultMaxRetries is the default number of consumer creation retries.
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the base delay between retries.
	DefaultRetryBackoff = 100 * time.Millisecond

	// DefaultMaxRetryBackoff caps the delay between iterator recreations.
	DefaultMaxRetryBackoff = 5 * time.Second

	// DefaultAckWait is the default duration to wait for acknowledgment.
	DefaultAckWait = 30 * time.Second

	// DefaultMaxDeliver is the default maximum delivery attempts per lead.
	DefaultMaxDeliver = 5
)

// Config configures a lead intake Consumer.
//
// Only StreamName is required; the other fields have defaults.
type Config struct {
	// StreamName is the JetStream stream holding incoming leads.
	StreamName string

	// Subject filters the stream (default "leads.>").
	Subject string

	// Durable is the durable consumer name (default "leadroute-intake"). Replicas sharing
	// the name share the work.
	Durable string

	// UnroutedDelay, when > 0, redelivers leads without an eligible agent after this
	// delay instead of acknowledging them.
	UnroutedDelay time.Duration

	AckWait      time.Duration
	MaxDeliver   int
	BatchSize    int
	FetchTimeout time.Duration

	MaxRetries   int
	RetryBackoff time.Duration

	Logger types.Logger
}

// applyDefaults fills unset optional fields with project defaults.
func (cfg *Config) applyDefaults() {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Durable == "" {
		cfg.Durable = DefaultDurable
	}
	cfg.Durable = sanitizeConsumerName(cfg.Durable)
	if cfg.AckWait == 0 {
		cfg.AckWait = DefaultAckWait
	}
	if cfg.MaxDeliver == 0 {
		cfg.MaxDeliver = DefaultMaxDeliver
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
}

func (cfg *Config) validate() error {
	if cfg.StreamName == "" {
		return errors.New("stream name is required")
	}
	if cfg.UnroutedDelay < 0 {
		return errors.New("unrouted delay must not be negative")
	}
	if cfg.BatchSize < 0 || cfg.MaxDeliver < -1 {
		return errors.New("batch size and max deliver must not be negative")
	}

	return nil
}

func (cfg *Config) consumerConfig() jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Name:          cfg.Durable,
		Durable:       cfg.Durable,
		FilterSubject: cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       cfg.AckWait,
		MaxDeliver:    cfg.MaxDeliver,
	}
}
