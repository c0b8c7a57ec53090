package source

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/types"
)

// DefaultKeyPrefix is the key prefix of worker records in the roster bucket.
const DefaultKeyPrefix = "worker"

const defaultDebounce = 100 * time.Millisecond

// KV is a roster source backed by a NATS JetStream KV bucket.
//
// Each worker is stored as JSON under "<prefix>.<workerID>". Before Start, ListWorkers
// scans the bucket on every call. After Start, a watcher keeps a local cache current
// and ListWorkers is served from memory.
//
// Workers are returned ordered by id: the bucket itself has no order.
type KV struct {
	kv       jetstream.KeyValue
	prefix   string
	debounce time.Duration
	onChange func(ctx context.Context) error
	logger   types.Logger

	cache *xsync.Map[string, types.Worker]
	ready chan struct{}

	watcher   jetstream.KeyWatcher
	watcherMu sync.Mutex

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

var _ types.RosterSource = (*KV)(nil)

// KVOption configures a KV source.
type KVOption func(*KV)

// WithKeyPrefix sets the worker key prefix (default "worker").
func WithKeyPrefix(prefix string) KVOption {
	return func(s *KV) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithOnChange registers a callback run after roster changes seen by the watcher.
//
// Bursts of changes are debounced into one call. A typical callback is Engine.Refresh.
func WithOnChange(fn func(ctx context.Context) error) KVOption {
	return func(s *KV) {
		s.onChange = fn
	}
}

// WithDebounce sets the debounce window for the change callback (default 100ms).
func WithDebounce(d time.Duration) KVOption {
	return func(s *KV) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithKVLogger sets the logger.
func WithKVLogger(l types.Logger) KVOption {
	return func(s *KV) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewKV creates a roster source reading from the given bucket.
//
// Parameters:
//   - kv: Roster bucket
//   - opts: Optional key prefix, change callback, debounce and logger
//
// Returns:
//   - *KV: Source ready for ListWorkers; call Start to enable the watcher
//
// Example:
//
//	src := source.NewKV(bucket)
//	engine, _ := leadroute.NewEngine(&cfg, src)
//	src.OnChange(engine.Refresh)
//	if err := src.Start(ctx); err != nil {
//	    return err
//	}
func NewKV(kv jetstream.KeyValue, opts ...KVOption) *KV {
	s := &KV{
		kv:       kv,
		prefix:   DefaultKeyPrefix,
		debounce: defaultDebounce,
		logger:   logger.NewNop(),
		cache:    xsync.NewMap[string, types.Worker](),
		ready:    make(chan struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// OnChange sets the change callback. It must be called before Start.
func (s *KV) OnChange(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
}

// Key returns the bucket key of a worker.
func (s *KV) Key(workerID string) string {
	return s.prefix + "." + workerID
}

// Put stores a worker record in the bucket.
func (s *KV) Put(ctx context.Context, w types.Worker) error {
	if err := w.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode worker %s: %w", w.ID, err)
	}
	if _, err := s.kv.Put(ctx, s.Key(w.ID), data); err != nil {
		return fmt.Errorf("put worker %s: %w", w.ID, err)
	}

	return nil
}

// Delete removes a worker record from the bucket.
func (s *KV) Delete(ctx context.Context, workerID string) error {
	if err := s.kv.Delete(ctx, s.Key(workerID)); err != nil {
		return fmt.Errorf("delete worker %s: %w", workerID, err)
	}

	return nil
}

// Start begins watching the bucket and blocks until the initial roster is cached.
//
// Parameters:
//   - ctx: Context for the watcher lifetime
//
// Returns:
//   - error: Lifecycle error, watcher failure, or ctx error while waiting for the
//     initial replay
func (s *KV) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return types.ErrWatcherAlreadyStopped
	}
	if s.started {
		s.mu.Unlock()
		return types.ErrWatcherAlreadyStarted
	}

	watcher, err := s.kv.Watch(ctx, s.prefix+".*")
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to start roster watcher: %w", err)
	}
	s.watcherMu.Lock()
	s.watcher = watcher
	s.watcherMu.Unlock()
	s.started = true
	s.mu.Unlock()

	s.logger.Info("roster watcher started", "prefix", s.prefix)
	go s.processWatcherEvents(ctx, watcher)

	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the watcher and waits for its goroutine to exit. Safe to call twice.
func (s *KV) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return types.ErrWatcherNotStarted
	}
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh

	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	if err := s.watcher.Stop(); err != nil {
		s.logger.Warn("failed to stop roster watcher", "error", err)
	}
	s.logger.Debug("roster watcher stopped")

	return nil
}

// ListWorkers returns the roster ordered by worker id.
//
// Records that fail to decode are skipped with a warning.
func (s *KV) ListWorkers(ctx context.Context) ([]types.Worker, error) {
	if s.watching() {
		return s.cached(), nil
	}

	return s.scan(ctx)
}

func (s *KV) watching() bool {
	select {
	case <-s.ready:
	default:
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.stopped
}

func (s *KV) cached() []types.Worker {
	out := make([]types.Worker, 0, s.cache.Size())
	s.cache.Range(func(_ string, w types.Worker) bool {
		out = append(out, w.Clone())
		return true
	})
	slices.SortFunc(out, func(a, b types.Worker) int { return cmp.Compare(a.ID, b.ID) })

	return out
}

func (s *KV) scan(ctx context.Context) ([]types.Worker, error) {
	lister, err := s.kv.ListKeysFiltered(ctx, s.prefix+".*")
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []types.Worker{}, nil
		}

		return nil, fmt.Errorf("list roster keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	workers := make([]types.Worker, 0, len(keys))
	for _, key := range keys {
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue
			}

			return nil, fmt.Errorf("get %s: %w", key, err)
		}

		w, ok := s.decode(entry)
		if ok {
			workers = append(workers, w)
		}
	}

	return workers, nil
}

func (s *KV) decode(entry jetstream.KeyValueEntry) (types.Worker, bool) {
	var w types.Worker
	if err := json.Unmarshal(entry.Value(), &w); err != nil {
		s.logger.Warn("skipping undecodable roster record", "key", entry.Key(), "error", err)
		return types.Worker{}, false
	}
	if want := strings.TrimPrefix(entry.Key(), s.prefix+"."); w.ID != want {
		s.logger.Warn("roster record id does not match its key", "key", entry.Key(), "id", w.ID)
		return types.Worker{}, false
	}

	return w, true
}

// processWatcherEvents applies watcher updates to the cache and debounces the change
// callback.
func (s *KV) processWatcherEvents(ctx context.Context, watcher jetstream.KeyWatcher) {
	defer close(s.doneCh)

	debounceTimer := time.NewTimer(s.debounce)
	debounceTimer.Stop()
	var (
		pending  bool
		replayed bool
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				return
			}
			if entry == nil {
				if !replayed {
					replayed = true
					close(s.ready)
					s.logger.Debug("roster watcher replay done", "workers", s.cache.Size())
				}

				continue
			}

			id := strings.TrimPrefix(entry.Key(), s.prefix+".")
			switch entry.Operation() {
			case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
				s.cache.Delete(id)
			default:
				if w, ok := s.decode(entry); ok {
					s.cache.Store(id, w)
				}
			}

			if replayed && s.onChange != nil && !pending {
				pending = true
				debounceTimer.Reset(s.debounce)
			}

		case <-debounceTimer.C:
			if !pending {
				continue
			}
			pending = false
			s.logger.Debug("roster change detected, running callback")
			if err := s.onChange(ctx); err != nil {
				s.logger.Error("roster change callback failed", "error", err)
			}
		}
	}
}
