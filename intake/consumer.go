package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/leadroute/types"
)

// Router routes one work item. *leadroute.Engine implements it.
type Router interface {
	AutoAssign(ctx context.Context, item types.WorkItem) (*types.Assignment, error)
}

// Stats counts message outcomes since Start.
type Stats struct {
	Assigned int64 `json:"assigned"`
	Unrouted int64 `json:"unrouted"`
	Rejected int64 `json:"rejected"`
	Failed   int64 `json:"failed"`
}

// Consumer feeds leads from a JetStream stream into a Router.
type Consumer struct {
	js     jetstream.JetStream
	config Config
	router Router
	logger types.Logger

	mu       sync.Mutex
	consumer jetstream.Consumer
	cancel   context.CancelFunc
	doneCh   chan struct{}
	started  bool
	stopped  bool

	assigned atomic.Int64
	unrouted atomic.Int64
	rejected atomic.Int64
	failed   atomic.Int64
}

// NewConsumer creates a lead intake consumer.
//
// Parameters:
//   - js: JetStream context (must be non-nil)
//   - cfg: Consumer configuration; StreamName is required
//   - router: Router receiving decoded work items (must be non-nil)
//
// Returns:
//   - *Consumer: Consumer with defaults applied; call Start to begin pulling
//   - error: Configuration error
func NewConsumer(js jetstream.JetStream, cfg Config, router Router) (*Consumer, error) {
	if js == nil {
		return nil, errors.New("JetStream context is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &Consumer{
		js:     js,
		config: cfg,
		router: router,
		logger: cfg.Logger,
	}, nil
}

// Start creates or updates the durable consumer and starts the pull loop.
//
// The loop runs until Stop is called or ctx is cancelled.
//
// Returns:
//   - error: types.ErrWatcherAlreadyStarted/ErrWatcherAlreadyStopped on misuse, or the
//     JetStream error after all retries
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return types.ErrWatcherAlreadyStopped
	}
	if c.started {
		return types.ErrWatcherAlreadyStarted
	}

	var (
		cons    jetstream.Consumer
		lastErr error
	)
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		cons, lastErr = c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, c.config.consumerConfig())
		if lastErr == nil {
			break
		}
		if attempt >= c.config.MaxRetries {
			return fmt.Errorf("failed to create intake consumer %s after %d attempts: %w",
				c.config.Durable, c.config.MaxRetries+1, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.config.RetryBackoff):
		}
	}

	pullCtx, cancel := context.WithCancel(ctx)
	c.consumer = cons
	c.cancel = cancel
	c.doneCh = make(chan struct{})
	c.started = true

	go c.runPullLoop(pullCtx, cons)
	c.logger.Info("lead intake started",
		"stream", c.config.StreamName,
		"subject", c.config.Subject,
		"durable", c.config.Durable,
	)

	return nil
}

// Stop stops the pull loop and waits for the in-flight message to finish.
//
// The durable consumer is kept on the server so a restart resumes where it left off.
// Safe to call twice.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return types.ErrWatcherNotStarted
	}
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	cancel, done := c.cancel, c.doneCh
	c.mu.Unlock()

	cancel()
	<-done
	c.logger.Info("lead intake stopped", "stats", c.Stats())

	return nil
}

// Stats returns the outcome counters.
func (c *Consumer) Stats() Stats {
	return Stats{
		Assigned: c.assigned.Load(),
		Unrouted: c.unrouted.Load(),
		Rejected: c.rejected.Load(),
		Failed:   c.failed.Load(),
	}
}

// Info returns the JetStream info of the durable consumer.
func (c *Consumer) Info(ctx context.Context) (*jetstream.ConsumerInfo, error) {
	c.mu.Lock()
	cons := c.consumer
	c.mu.Unlock()
	if cons == nil {
		return nil, types.ErrWatcherNotStarted
	}

	info, err := cons.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get intake consumer info: %w", err)
	}

	return info, nil
}

// runPullLoop pulls messages until ctx is cancelled, recreating the iterator after
// transient errors.
func (c *Consumer) runPullLoop(ctx context.Context, cons jetstream.Consumer) {
	defer close(c.doneCh)

	var backoff time.Duration
	for {
		iter, err := cons.Messages(
			jetstream.PullMaxMessages(c.config.BatchSize),
			jetstream.PullExpiry(c.config.FetchTimeout),
			jetstream.PullHeartbeat(c.config.FetchTimeout/2),
		)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			backoff = jitterBackoff(backoff, c.config.RetryBackoff, DefaultMaxRetryBackoff)
			c.logger.Error("failed to create lead iterator", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return
			}

			continue
		}

		// Next blocks, so Stop reaches it through the iterator.
		stopIter := context.AfterFunc(ctx, iter.Stop)

		for {
			msg, err := iter.Next()
			if err != nil {
				iter.Stop()
				stopIter()
				if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
					return
				}
				backoff = jitterBackoff(backoff, c.config.RetryBackoff, DefaultMaxRetryBackoff)
				c.logger.Warn("lead iterator error, recreating", "error", err, "retry_in", backoff)
				if !sleep(ctx, backoff) {
					return
				}

				break
			}

			backoff = 0
			c.handle(ctx, msg)
		}
	}
}

// handle routes one message and settles it.
func (c *Consumer) handle(ctx context.Context, msg jetstream.Msg) {
	var item types.WorkItem
	if err := json.Unmarshal(msg.Data(), &item); err != nil {
		c.rejected.Add(1)
		c.logger.Warn("dropping undecodable lead", "subject", msg.Subject(), "error", err)
		c.settle(msg.Term(), "term")

		return
	}

	a, err := c.router.AutoAssign(ctx, item)
	switch {
	case errors.Is(err, types.ErrInvalidWorkItem):
		c.rejected.Add(1)
		c.logger.Warn("dropping invalid lead", "work_item_id", item.ID, "error", err)
		c.settle(msg.Term(), "term")

	case err != nil:
		c.failed.Add(1)
		c.logger.Error("lead routing failed, will retry", "work_item_id", item.ID, "error", err)
		c.settle(msg.Nak(), "nak")

	case a == nil:
		c.unrouted.Add(1)
		if c.config.UnroutedDelay > 0 {
			c.logger.Debug("no agent for lead, retrying later", "work_item_id", item.ID, "delay", c.config.UnroutedDelay)
			c.settle(msg.NakWithDelay(c.config.UnroutedDelay), "nak")

			return
		}
		c.settle(msg.Ack(), "ack")

	default:
		c.assigned.Add(1)
		c.settle(msg.Ack(), "ack")
	}
}

func (c *Consumer) settle(err error, action string) {
	if err != nil {
		c.logger.Warn("failed to settle lead message", "action", action, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
