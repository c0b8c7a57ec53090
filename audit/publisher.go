package audit

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/types"
)

// DefaultPrefix is the key prefix of decision records.
const DefaultPrefix = "decision"

// maxCreateAttempts bounds retries when another publisher already took a sequence.
const maxCreateAttempts = 5

// Kind identifies the type of a decision record.
type Kind string

// Record kinds.
const (
	KindAssigned    Kind = "assigned"
	KindReassigned  Kind = "reassigned"
	KindNoCandidate Kind = "no_candidate"
)

// Record is one published routing decision.
type Record struct {
	Sequence     int64               `json:"sequence"`
	Kind         Kind                `json:"kind"`
	WorkItemID   string              `json:"workItemId"`
	Assignment   *types.Assignment   `json:"assignment,omitempty"`
	Reassignment *types.Reassignment `json:"reassignment,omitempty"`
	PublishedAt  time.Time           `json:"publishedAt"`
}

// Publisher writes decision records to a KV bucket.
//
// Sequence numbers stay monotonic across restarts by discovering the highest
// existing sequence before the first publish.
type Publisher struct {
	kv        jetstream.KeyValue
	prefix    string
	keyPrefix string // cached "prefix."
	clock     func() time.Time

	mu       sync.Mutex
	sequence int64

	logger types.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix sets the record key prefix (default "decision").
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l types.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock sets the time source of PublishedAt.
func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewPublisher creates a decision publisher.
//
// Parameters:
//   - kv: Bucket receiving decision records
//   - opts: Optional prefix, logger and clock
//
// Returns:
//   - *Publisher: Publisher starting at sequence 0; call DiscoverHighestSequence to
//     continue an existing history
func NewPublisher(kv jetstream.KeyValue, opts ...Option) *Publisher {
	p := &Publisher{
		kv:     kv,
		prefix: DefaultPrefix,
		clock:  time.Now,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.keyPrefix = p.prefix + "."

	return p
}

// Key returns the bucket key of a sequence number.
//
// Sequences are zero-padded so keys sort in publish order.
func (p *Publisher) Key(sequence int64) string {
	return fmt.Sprintf("%s%020d", p.keyPrefix, sequence)
}

// DiscoverHighestSequence scans the bucket for the highest published sequence.
//
// Keys outside the prefix and keys without a numeric suffix are ignored.
//
// Returns:
//   - error: Nil on success or empty bucket, error on KV access failure
func (p *Publisher) DiscoverHighestSequence(ctx context.Context) error {
	keys, err := p.keys(ctx)
	if err != nil {
		return err
	}

	highest := int64(0)
	for _, key := range keys {
		seq, ok := p.parseKey(key)
		if !ok {
			p.logger.Debug("skipping non-decision key", "key", key, "prefix", p.prefix)
			continue
		}
		highest = max(highest, seq)
	}

	p.mu.Lock()
	p.sequence = max(p.sequence, highest)
	p.mu.Unlock()

	if highest > 0 {
		p.logger.Info("discovered existing decision records", "highest_sequence", highest)
	}

	return nil
}

// Sequence returns the last published sequence number.
func (p *Publisher) Sequence() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sequence
}

// PublishAssignment records a committed assignment.
func (p *Publisher) PublishAssignment(ctx context.Context, a types.Assignment) (Record, error) {
	return p.publish(ctx, Record{Kind: KindAssigned, WorkItemID: a.WorkItemID, Assignment: &a})
}

// PublishReassignment records a committed reassignment.
func (p *Publisher) PublishReassignment(ctx context.Context, r types.Reassignment) (Record, error) {
	return p.publish(ctx, Record{Kind: KindReassigned, WorkItemID: r.WorkItemID, Reassignment: &r})
}

// PublishNoCandidate records a work item that could not be routed.
func (p *Publisher) PublishNoCandidate(ctx context.Context, item types.WorkItem) (Record, error) {
	return p.publish(ctx, Record{Kind: KindNoCandidate, WorkItemID: item.ID})
}

// publish assigns the next sequence and creates the record key.
//
// Create fails when the key exists, so a second publisher sharing the bucket
// makes this one skip ahead instead of overwriting history.
func (p *Publisher) publish(ctx context.Context, rec Record) (Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec.PublishedAt = p.clock()

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		rec.Sequence = p.sequence + 1

		data, err := json.Marshal(rec)
		if err != nil {
			return Record{}, fmt.Errorf("%w: marshal record: %w", types.ErrPublishFailed, err)
		}

		key := p.Key(rec.Sequence)
		if _, err := p.kv.Create(ctx, key, data); err != nil {
			if errors.Is(err, jetstream.ErrKeyExists) {
				p.logger.Debug("decision sequence taken, skipping ahead", "sequence", rec.Sequence)
				p.sequence = rec.Sequence
				continue
			}

			return Record{}, fmt.Errorf("%w: %s: %w", types.ErrPublishFailed, key, err)
		}

		p.sequence = rec.Sequence
		p.logger.Debug("decision published", "key", key, "kind", rec.Kind, "work_item_id", rec.WorkItemID)

		return rec, nil
	}

	return Record{}, fmt.Errorf("%w: no free sequence after %d attempts", types.ErrPublishFailed, maxCreateAttempts)
}

// Records returns every decision record in sequence order.
//
// Records that fail to decode are skipped with a warning.
func (p *Publisher) Records(ctx context.Context) ([]Record, error) {
	keys, err := p.keys(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		if _, ok := p.parseKey(key); !ok {
			continue
		}

		entry, err := p.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue
			}

			return nil, fmt.Errorf("get %s: %w", key, err)
		}

		var rec Record
		if err := json.Unmarshal(entry.Value(), &rec); err != nil {
			p.logger.Warn("skipping undecodable decision record", "key", key, "error", err)
			continue
		}
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b Record) int { return cmp.Compare(a.Sequence, b.Sequence) })

	return records, nil
}

// Hooks returns engine hooks that publish every decision.
//
// Publish failures are returned to the engine, which logs them and forwards them to
// OnError; they never fail the routing decision itself.
func (p *Publisher) Hooks() *types.Hooks {
	return &types.Hooks{
		OnAssigned: func(ctx context.Context, a types.Assignment) error {
			_, err := p.PublishAssignment(ctx, a)
			return err
		},
		OnReassigned: func(ctx context.Context, r types.Reassignment) error {
			_, err := p.PublishReassignment(ctx, r)
			return err
		},
		OnNoCandidate: func(ctx context.Context, item types.WorkItem) error {
			_, err := p.PublishNoCandidate(ctx, item)
			return err
		},
	}
}

func (p *Publisher) keys(ctx context.Context) ([]string, error) {
	lister, err := p.kv.ListKeysFiltered(ctx, p.keyPrefix+"*")
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list KV keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	return keys, nil
}

func (p *Publisher) parseKey(key string) (int64, bool) {
	suffix, ok := strings.CutPrefix(key, p.keyPrefix)
	if !ok {
		return 0, false
	}

	seq, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}

	return seq, true
}
