package leadroute

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/leadroute/internal/balance"
	"github.com/arloliu/leadroute/internal/finder"
	"github.com/arloliu/leadroute/internal/hooks"
	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/internal/metrics"
	"github.com/arloliu/leadroute/internal/ranking"
	"github.com/arloliu/leadroute/internal/registry"
	"github.com/arloliu/leadroute/internal/selector"
	"github.com/arloliu/leadroute/rule"
	"github.com/arloliu/leadroute/types"
)

// Engine routes work items to workers.
//
// An Engine owns the worker registry, the rule set in effect and the round-robin state.
// All methods are safe for concurrent use. Decisions are in-memory and never block;
// only Refresh performs I/O.
type Engine struct {
	cfg    Config
	source RosterSource
	store  WorkerStore
	rules  atomic.Pointer[rule.Set]

	finder     *finder.Finder
	ranker     *ranking.Ranker
	selector   *selector.Selector
	thresholds balance.Thresholds

	hooks   Hooks
	metrics MetricsCollector
	logger  Logger
	clock   func() time.Time
}

// NewEngine creates a routing engine.
//
// The engine starts with an empty roster; call Refresh to load workers from the source.
//
// Parameters:
//   - cfg: Configuration (defaults applied in place, then validated)
//   - source: Roster source polled by Refresh
//   - opts: Optional logger, metrics, hooks, clock or worker store
//
// Returns:
//   - *Engine: Ready to use engine
//   - error: ErrInvalidConfig, ErrRosterSourceRequired or a validation error
//
// Example:
//
//	cfg := leadroute.DefaultConfig()
//	engine, err := leadroute.NewEngine(&cfg, source.NewStatic(workers))
//	if err != nil {
//	    return err
//	}
//	if err := engine.Refresh(ctx); err != nil {
//	    return err
//	}
//	assignment, err := engine.AutoAssign(ctx, item)
func NewEngine(cfg *Config, source RosterSource, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if source == nil {
		return nil, ErrRosterSourceRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	clock := options.clock
	if clock == nil {
		clock = time.Now
	}

	store := options.store
	if store == nil {
		loc, _ := cfg.location() // validated above
		store = registry.New(
			registry.WithClock(clock),
			registry.WithWorkingHours(registry.WorkingHours{
				AlwaysAvailable: cfg.WorkingHours.AlwaysAvailable,
				StartHour:       cfg.WorkingHours.StartHour,
				EndHour:         cfg.WorkingHours.EndHour,
				Location:        loc,
			}),
			registry.WithLogger(loggerInstance),
			registry.WithMetrics(metricsCollector),
		)
	}

	e := &Engine{
		cfg:      *cfg,
		source:   source,
		store:    store,
		finder:   finder.New(store, loggerInstance),
		ranker:   ranking.New(cfg.weights()),
		selector: selector.New(),
		thresholds: balance.Thresholds{
			Overloaded:  cfg.Balance.OverloadedRatio,
			Underloaded: cfg.Balance.UnderloadedRatio,
		},
		hooks:   hooks.Fill(options.hooks),
		metrics: metricsCollector,
		logger:  loggerInstance,
		clock:   clock,
	}
	e.rules.Store(cfg.Rules.Clone())

	return e, nil
}

// Refresh pulls a roster snapshot from the source and synchronizes the registry.
//
// Existing workers keep their live load; workers missing from the snapshot are removed.
// Malformed roster entries are skipped and reported in the returned error while the
// rest of the snapshot is still applied.
//
// Parameters:
//   - ctx: Context for cancellation; bounded by Config.OperationTimeout
//
// Returns:
//   - error: Source failure (registry untouched) or skipped entries
func (e *Engine) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OperationTimeout)
	defer cancel()

	workers, err := e.source.ListWorkers(ctx)
	if err != nil {
		e.logger.Error("roster refresh failed", "error", err)
		return fmt.Errorf("list workers: %w", err)
	}

	if err := e.store.Sync(workers); err != nil {
		e.logger.Warn("roster refresh skipped malformed entries", "error", err)
		return fmt.Errorf("sync roster: %w", err)
	}
	e.logger.Info("roster refreshed", "workers", len(workers))

	return nil
}

// AutoAssign routes a work item to the best available worker and commits one unit of
// load to it.
//
// Candidate discovery, ranking and selection run over one registry snapshot. If the
// selected worker filled up before the commit, the remaining candidates are tried in
// rank order.
//
// Parameters:
//   - ctx: Context; an expired context rejects the call before any mutation
//   - item: Work item to route
//
// Returns:
//   - *Assignment: The committed decision, or nil when no worker is eligible
//   - error: ErrDecisionTimeout or a *ValidationError; never returned for "no candidate"
func (e *Engine) AutoAssign(ctx context.Context, item WorkItem) (*Assignment, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		e.metrics.RecordDecision(types.OutcomeRejected, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: work item %s: %w", ErrDecisionTimeout, item.ID, err)
	}
	if err := item.Validate(); err != nil {
		e.metrics.RecordDecision(types.OutcomeRejected, time.Since(start).Seconds())
		return nil, err
	}

	rules := e.rules.Load()
	found := e.finder.Find(item, rules)
	e.metrics.RecordCandidates(len(found.Candidates))

	ranked := e.ranker.Rank(item, found.Territory, found.Candidates)
	choice, ok := e.selector.Select(ranked, rules.RoundRobin)
	if !ok {
		e.noCandidate(ctx, item, found, start)
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		e.metrics.RecordDecision(types.OutcomeRejected, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: work item %s: %w", ErrDecisionTimeout, item.ID, err)
	}

	winner := -1
	for _, idx := range commitOrder(len(ranked), choice.Index) {
		if e.store.IncrementLoad(ranked[idx].Worker.ID) {
			winner = idx
			break
		}
		e.logger.Debug("candidate filled up before commit",
			"work_item_id", item.ID,
			"worker_id", ranked[idx].Worker.ID,
		)
	}
	if winner < 0 {
		e.noCandidate(ctx, item, found, start)
		return nil, nil
	}

	c := ranked[winner]
	a := &Assignment{
		ID:         uuid.NewString(),
		WorkItemID: item.ID,
		WorkerID:   c.Worker.ID,
		WorkerName: c.Worker.Name,
		MatchScore: c.Score,
		Reasons:    slices.Clone(c.Reasons),
		Territory:  found.Territory,
		RoundRobin: choice.RoundRobin && winner == choice.Index,
		Timestamp:  e.clock(),
	}

	e.metrics.RecordDecision(types.OutcomeAssigned, time.Since(start).Seconds())
	e.logger.Info("work item assigned",
		"work_item_id", item.ID,
		"worker_id", a.WorkerID,
		"worker_name", a.WorkerName,
		"match_score", a.MatchScore,
		"reasons", a.Reasons,
		"round_robin", a.RoundRobin,
		"candidates", len(ranked),
	)

	if err := e.hooks.OnAssigned(ctx, *a); err != nil {
		e.hookFailed(ctx, "OnAssigned", err)
	}

	return a, nil
}

// Reassign moves a work item from one worker to another.
//
// The source decrement and the target increment are applied as one step: no
// concurrent observer sees one without the other. A target without spare capacity
// rejects the whole reassignment. Unknown worker ids are tolerated: that side is
// skipped and a warning is logged.
//
// Parameters:
//   - ctx: Context; an expired context rejects the call before any mutation
//   - item: Work item being moved
//   - from: Worker currently holding the item
//   - to: Worker receiving the item
//   - reason: Free-form reason recorded in the audit record
//
// Returns:
//   - *Reassignment: Audit record of the committed move
//   - error: ErrDecisionTimeout, ErrSameWorker, ErrCapacityExhausted or a *ValidationError
func (e *Engine) Reassign(ctx context.Context, item WorkItem, from, to, reason string) (*Reassignment, error) {
	if err := ctx.Err(); err != nil {
		e.metrics.RecordReassignment(false)
		return nil, fmt.Errorf("%w: work item %s: %w", ErrDecisionTimeout, item.ID, err)
	}
	if err := item.Validate(); err != nil {
		e.metrics.RecordReassignment(false)
		return nil, err
	}

	res, err := e.store.Transfer(from, to)
	if err != nil {
		e.metrics.RecordReassignment(false)
		e.logger.Warn("reassignment rejected",
			"work_item_id", item.ID,
			"from", from,
			"to", to,
			"error", err,
		)

		return nil, fmt.Errorf("reassign work item %s: %w", item.ID, err)
	}

	r := &Reassignment{
		ID:         uuid.NewString(),
		WorkItemID: item.ID,
		From:       from,
		To:         to,
		FromName:   res.From.Name,
		ToName:     res.To.Name,
		Reason:     reason,
		Timestamp:  e.clock(),
	}

	e.metrics.RecordReassignment(true)
	e.logger.Info("work item reassigned",
		"work_item_id", item.ID,
		"from", from,
		"to", to,
		"reason", reason,
		"decremented", res.Decremented,
		"incremented", res.Incremented,
	)

	if err := e.hooks.OnReassigned(ctx, *r); err != nil {
		e.hookFailed(ctx, "OnReassigned", err)
	}

	return r, nil
}

// UpdateRules merges a partial rule update into the rule set in effect.
//
// Each group named in the patch is shallow-merged and validated on its own; malformed
// groups are rejected without affecting the others. The new set is published
// atomically, so concurrent decisions see either the old or the new set in full.
//
// Parameters:
//   - patch: Partial update keyed by rule group
//
// Returns:
//   - UpdateResult: Changed, unchanged and rejected groups
//   - error: errors.Join of the rejected groups' *ConfigurationError, nil if none
func (e *Engine) UpdateRules(patch RulePatch) (UpdateResult, error) {
	for {
		current := e.rules.Load()
		next, result, err := current.Apply(patch)
		if !e.rules.CompareAndSwap(current, next) {
			continue
		}

		for _, kind := range result.Changed {
			e.metrics.RecordRuleUpdate(string(kind), true)
		}
		for _, kind := range result.Unchanged {
			e.metrics.RecordRuleUpdate(string(kind), true)
		}
		for kind, rejectErr := range result.Rejected {
			e.metrics.RecordRuleUpdate(string(kind), false)
			e.logger.Warn("rule group update rejected", "group", kind, "error", rejectErr)
		}
		e.logger.Info("routing rules updated",
			"changed", result.Changed,
			"unchanged", result.Unchanged,
			"rejected", len(result.Rejected),
		)

		return result, err
	}
}

// Rules returns the rule set in effect. The returned set must not be modified.
func (e *Engine) Rules() *rule.Set {
	return e.rules.Load()
}

// RoutingRules reports the rule configuration and a capacity summary of every worker.
func (e *Engine) RoutingRules() RoutingRules {
	rules := e.rules.Load()
	workers := e.store.Snapshot().Workers()

	summaries := make([]WorkerSummary, 0, len(workers))
	for _, w := range workers {
		summaries = append(summaries, types.NewWorkerSummary(w))
	}

	return RoutingRules{
		Rules:           rules.Clone(),
		ActiveRuleCount: rules.ActiveCount(),
		Workers:         summaries,
	}
}

// AgentWorkload reports the capacity counters and attributes of one worker.
//
// Returns:
//   - Workload: Workload report
//   - error: *NotFoundError for an unknown worker id
func (e *Engine) AgentWorkload(workerID string) (Workload, error) {
	w, ok := e.store.Get(workerID)
	if !ok {
		return Workload{}, &NotFoundError{WorkerID: workerID}
	}

	return types.NewWorkload(w), nil
}

// BalanceWorkload classifies workers as overloaded or underloaded.
//
// The report is a diagnostic: the engine never reassigns work on its own.
func (e *Engine) BalanceWorkload() BalanceReport {
	report := balance.Report(e.store.Snapshot().Workers(), e.thresholds)
	e.logger.Info("workload balance check",
		"overloaded", len(report.OverloadedWorkers),
		"underloaded", len(report.UnderloadedWorkers),
	)

	return report
}

func (e *Engine) noCandidate(ctx context.Context, item WorkItem, found finder.Result, start time.Time) {
	e.metrics.RecordDecision(types.OutcomeNoCandidate, time.Since(start).Seconds())
	e.logger.Warn("no eligible worker for work item",
		"work_item_id", item.ID,
		"territory", found.Territory,
		"matched", found.Matched,
	)

	if err := e.hooks.OnNoCandidate(ctx, item); err != nil {
		e.hookFailed(ctx, "OnNoCandidate", err)
	}
}

func (e *Engine) hookFailed(ctx context.Context, hook string, err error) {
	e.logger.Error("hook failed", "hook", hook, "error", err)
	if hookErr := e.hooks.OnError(ctx, fmt.Errorf("%s hook: %w", hook, err)); hookErr != nil {
		e.logger.Error("OnError hook failed", "error", hookErr)
	}
}

// commitOrder lists ranked indexes starting with the selected one, then the rest in
// rank order.
func commitOrder(n, selected int) []int {
	order := make([]int, 0, n)
	order = append(order, selected)
	for i := 0; i < n; i++ {
		if i != selected {
			order = append(order, i)
		}
	}

	return order
}

func (cfg *Config) weights() ranking.Weights {
	return ranking.Weights{
		Capacity:          cfg.Scoring.CapacityWeight,
		Territory:         cfg.Scoring.TerritoryBonus,
		Specialty:         cfg.Scoring.SpecialtyBonus,
		Language:          cfg.Scoring.LanguageBonus,
		Senior:            cfg.Scoring.SeniorBonus,
		SeniorMinScore:    cfg.Scoring.SeniorMinScore,
		HighCapacityRatio: cfg.Scoring.HighCapacityRatio,
	}
}
