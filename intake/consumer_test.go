package intake

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	routetest "github.com/arloliu/leadroute/testing"
	"github.com/arloliu/leadroute/types"
)

const testStream = "LEADS"

// fakeRouter assigns every lead except ids listed in unrouted (nil result) or
// failing (transient error).
type fakeRouter struct {
	mu       sync.Mutex
	calls    map[string]int
	unrouted map[string]bool
	failing  map[string]bool
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{
		calls:    make(map[string]int),
		unrouted: make(map[string]bool),
		failing:  make(map[string]bool),
	}
}

func (r *fakeRouter) AutoAssign(_ context.Context, item types.WorkItem) (*types.Assignment, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[item.ID]++

	switch {
	case r.unrouted[item.ID]:
		return nil, nil
	case r.failing[item.ID] && r.calls[item.ID] == 1:
		return nil, errors.New("registry busy")
	}

	return &types.Assignment{WorkItemID: item.ID, WorkerID: "agent_001"}, nil
}

func (r *fakeRouter) callCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls[id]
}

func newStream(t *testing.T) (jetstream.JetStream, *nats.Conn) {
	t.Helper()

	_, nc := routetest.StartEmbeddedNATS(t)

	return routetest.CreateLeadStream(t, nc, testStream), nc
}

func publishLead(t *testing.T, js jetstream.JetStream, item types.WorkItem) {
	t.Helper()

	data, err := json.Marshal(item)
	require.NoError(t, err)
	_, err = js.Publish(t.Context(), "leads.web", data)
	require.NoError(t, err)
}

func startConsumer(t *testing.T, js jetstream.JetStream, cfg Config, router Router) *Consumer {
	t.Helper()

	cfg.StreamName = testStream
	cfg.FetchTimeout = time.Second
	cfg.Logger = routetest.NewTestLogger(t)

	c, err := NewConsumer(js, cfg, router)
	require.NoError(t, err)
	require.NoError(t, c.Start(t.Context()))
	t.Cleanup(func() { _ = c.Stop() })

	return c
}

func TestConsumer_RoutesLeads(t *testing.T) {
	js, _ := newStream(t)
	router := newFakeRouter()
	c := startConsumer(t, js, Config{}, router)

	for _, id := range []string{"lead-1", "lead-2", "lead-3"} {
		publishLead(t, js, types.WorkItem{ID: id, Score: 80, Location: "Carlsbad"})
	}

	require.Eventually(t, func() bool {
		return c.Stats().Assigned == 3
	}, 5*time.Second, 20*time.Millisecond)

	require.Equal(t, 1, router.callCount("lead-1"))
	require.Equal(t, Stats{Assigned: 3}, c.Stats())

	info, err := c.Info(t.Context())
	require.NoError(t, err)
	require.Equal(t, DefaultDurable, info.Name)
	require.Equal(t, DefaultSubject, info.Config.FilterSubject)
	require.Eventually(t, func() bool {
		info, err := c.Info(t.Context())
		return err == nil && info.NumAckPending == 0
	}, 5*time.Second, 20*time.Millisecond)
}

func TestConsumer_RejectsMalformedLeads(t *testing.T) {
	js, _ := newStream(t)
	router := newFakeRouter()
	c := startConsumer(t, js, Config{}, router)

	_, err := js.Publish(t.Context(), "leads.web", []byte("not json"))
	require.NoError(t, err)
	publishLead(t, js, types.WorkItem{ID: "lead-bad", Score: 150})
	publishLead(t, js, types.WorkItem{ID: "lead-ok", Score: 50})

	require.Eventually(t, func() bool {
		s := c.Stats()
		return s.Rejected == 2 && s.Assigned == 1
	}, 5*time.Second, 20*time.Millisecond)

	// Terminated messages are never redelivered.
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int64(2), c.Stats().Rejected)
	require.Equal(t, 0, router.callCount("lead-bad"))
}

func TestConsumer_UnroutedLeads(t *testing.T) {
	t.Run("acked without delay", func(t *testing.T) {
		js, _ := newStream(t)
		router := newFakeRouter()
		router.unrouted["lead-x"] = true
		c := startConsumer(t, js, Config{}, router)

		publishLead(t, js, types.WorkItem{ID: "lead-x", Score: 10})

		require.Eventually(t, func() bool {
			return c.Stats().Unrouted == 1
		}, 5*time.Second, 20*time.Millisecond)
		time.Sleep(200 * time.Millisecond)
		require.Equal(t, 1, router.callCount("lead-x"))
	})

	t.Run("redelivered after delay", func(t *testing.T) {
		js, _ := newStream(t)
		router := newFakeRouter()
		router.unrouted["lead-x"] = true
		c := startConsumer(t, js, Config{UnroutedDelay: 50 * time.Millisecond}, router)

		publishLead(t, js, types.WorkItem{ID: "lead-x", Score: 10})

		require.Eventually(t, func() bool {
			return router.callCount("lead-x") >= 2
		}, 5*time.Second, 20*time.Millisecond)
		require.GreaterOrEqual(t, c.Stats().Unrouted, int64(2))
	})
}

func TestConsumer_RetriesFailedRouting(t *testing.T) {
	js, _ := newStream(t)
	router := newFakeRouter()
	router.failing["lead-1"] = true
	c := startConsumer(t, js, Config{}, router)

	publishLead(t, js, types.WorkItem{ID: "lead-1", Score: 60})

	require.Eventually(t, func() bool {
		return c.Stats().Assigned == 1
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, int64(1), c.Stats().Failed)
	require.Equal(t, 2, router.callCount("lead-1"))
}

func TestConsumer_ResumesAfterRestart(t *testing.T) {
	js, _ := newStream(t)
	router := newFakeRouter()

	// Short AckWait so a lead handed to the stopped pull request is redelivered quickly.
	cfg := Config{Durable: "intake.a", AckWait: time.Second}
	first := startConsumer(t, js, cfg, router)
	publishLead(t, js, types.WorkItem{ID: "lead-1", Score: 60})
	require.Eventually(t, func() bool {
		return first.Stats().Assigned == 1
	}, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, first.Stop())

	publishLead(t, js, types.WorkItem{ID: "lead-2", Score: 60})

	second := startConsumer(t, js, cfg, router)
	require.Eventually(t, func() bool {
		return second.Stats().Assigned == 1
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, 1, router.callCount("lead-1"))
	require.Equal(t, 1, router.callCount("lead-2"))

	info, err := second.Info(t.Context())
	require.NoError(t, err)
	require.Equal(t, "intake_a", info.Name)
}

func TestConsumer_Lifecycle(t *testing.T) {
	js, _ := newStream(t)

	c, err := NewConsumer(js, Config{StreamName: testStream}, newFakeRouter())
	require.NoError(t, err)

	require.ErrorIs(t, c.Stop(), types.ErrWatcherNotStarted)
	_, err = c.Info(t.Context())
	require.ErrorIs(t, err, types.ErrWatcherNotStarted)

	require.NoError(t, c.Start(t.Context()))
	require.ErrorIs(t, c.Start(t.Context()), types.ErrWatcherAlreadyStarted)
	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
	require.ErrorIs(t, c.Start(t.Context()), types.ErrWatcherAlreadyStopped)
}

func TestConsumer_StartFailsForMissingStream(t *testing.T) {
	_, nc := routetest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	c, err := NewConsumer(js, Config{StreamName: "MISSING", MaxRetries: 1, RetryBackoff: time.Millisecond}, newFakeRouter())
	require.NoError(t, err)

	err = c.Start(t.Context())
	require.ErrorIs(t, err, jetstream.ErrStreamNotFound)
}

func TestNewConsumer_Validation(t *testing.T) {
	js, _ := newStream(t)
	router := newFakeRouter()

	tests := []struct {
		name   string
		js     jetstream.JetStream
		cfg    Config
		router Router
	}{
		{"nil jetstream", nil, Config{StreamName: testStream}, router},
		{"nil router", js, Config{StreamName: testStream}, nil},
		{"missing stream", js, Config{}, router},
		{"negative delay", js, Config{StreamName: testStream, UnroutedDelay: -time.Second}, router},
		{"negative batch", js, Config{StreamName: testStream, BatchSize: -1}, router},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConsumer(tt.js, tt.cfg, tt.router)
			require.Error(t, err)
			require.Nil(t, c)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{StreamName: testStream, Durable: "lead intake"}
	require.NoError(t, cfg.validate())
	cfg.applyDefaults()

	require.Equal(t, DefaultSubject, cfg.Subject)
	require.Equal(t, "lead_intake", cfg.Durable)
	require.Equal(t, DefaultAckWait, cfg.AckWait)
	require.Equal(t, DefaultMaxDeliver, cfg.MaxDeliver)
	require.Equal(t, DefaultBatchSize, cfg.BatchSize)
	require.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	require.NotNil(t, cfg.Logger)

	cc := cfg.consumerConfig()
	require.Equal(t, "lead_intake", cc.Durable)
	require.Equal(t, jetstream.AckExplicitPolicy, cc.AckPolicy)
}
