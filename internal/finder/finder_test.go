package finder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/internal/registry"
	"github.com/arloliu/leadroute/rule"
	"github.com/arloliu/leadroute/types"
)

func newStore(t *testing.T, workers ...types.Worker) *registry.Registry {
	t.Helper()

	store := registry.New(registry.WithWorkingHours(registry.WorkingHours{AlwaysAvailable: true}))
	require.NoError(t, store.Sync(workers))

	return store
}

func rules() *rule.Set {
	return &rule.Set{
		Territory: rule.TerritoryRule{
			Enabled:  true,
			Keywords: []rule.TerritoryKeywords{{Territory: "North County", Keywords: []string{"carlsbad"}}},
			Fallback: "Central",
		},
		Specialty: rule.SpecialtyRule{
			Enabled:     true,
			Specialists: map[string][]string{"Condo": {"condo", "ghost", "north"}},
		},
		Language: rule.LanguageRule{
			Enabled:   true,
			Languages: map[string][]string{"Spanish": {"spanish", "full"}},
		},
	}
}

func agent(id string, territory string, load int) types.Worker {
	return types.Worker{ID: id, Level: types.LevelMid, Territories: []string{territory}, MaxCapacity: 5, CurrentLoad: load}
}

func ids(ws []types.Worker) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.ID)
	}

	return out
}

func TestFinder_UnionInDiscoveryOrder(t *testing.T) {
	store := newStore(t,
		agent("spanish", "Central", 0),
		agent("condo", "Central", 0),
		agent("north", "North County", 0),
		agent("full", "Central", 5),
	)
	f := New(store, logger.NewTest(t))

	res := f.Find(types.WorkItem{ID: "lead-1", Location: "Carlsbad", PropertyType: "Condo", PreferredLanguage: "Spanish"}, rules())

	require.Equal(t, "North County", res.Territory)
	require.Equal(t, []string{"north", "condo", "spanish"}, ids(res.Candidates),
		"territory first, then specialty without the duplicate, then language")
	require.Equal(t, 4, res.Matched, "full worker matched but was filtered, ghost was dropped")
}

func TestFinder_FullWorkerNeverCandidate(t *testing.T) {
	store := newStore(t, agent("full", "North County", 5))
	f := New(store, logger.NewNop())

	res := f.Find(types.WorkItem{ID: "lead-1", Location: "Carlsbad", PreferredLanguage: "Spanish"}, rules())

	require.Empty(t, res.Candidates)
}

func TestFinder_FallbackTerritory(t *testing.T) {
	store := newStore(t, agent("central", "Central", 0))
	f := New(store, logger.NewNop())

	res := f.Find(types.WorkItem{ID: "lead-1", Location: "Somewhere unknown"}, rules())

	require.Equal(t, "Central", res.Territory)
	require.Equal(t, []string{"central"}, ids(res.Candidates))
}

func TestFinder_DisabledRulesContributeNothing(t *testing.T) {
	store := newStore(t, agent("spanish", "Central", 0))
	f := New(store, logger.NewNop())

	set := rules()
	set.Territory.Enabled = false
	set.Language.Enabled = false

	res := f.Find(types.WorkItem{ID: "lead-1", PreferredLanguage: "Spanish"}, set)

	require.Empty(t, res.Candidates)
	require.Zero(t, res.Matched)
}

func TestFinder_ScoreRuleIncludesHigherLevels(t *testing.T) {
	senior := agent("senior", "East County", 0)
	senior.Level = types.LevelSenior
	junior := agent("junior", "East County", 0)
	junior.Level = types.LevelJunior
	store := newStore(t, junior, senior, agent("mid", "East County", 0))
	f := New(store, logger.NewNop())

	set := &rule.Set{Score: rule.DefaultSet().Score}
	res := f.Find(types.WorkItem{ID: "lead-1", Score: 55}, set)

	require.Equal(t, []string{"senior", "mid"}, ids(res.Candidates))
}

func TestFinder_OutsideWorkingHours(t *testing.T) {
	store := registry.New(
		registry.WithWorkingHours(registry.WorkingHours{StartHour: 8, EndHour: 18, Location: time.UTC}),
		registry.WithClock(func() time.Time { return time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, store.Sync([]types.Worker{agent("central", "Central", 0)}))
	f := New(store, logger.NewNop())

	res := f.Find(types.WorkItem{ID: "lead-1", Location: "Downtown"}, rules())

	require.Empty(t, res.Candidates)
	require.Equal(t, 1, res.Matched)
}
