package leadroute

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/leadroute/rule"
)

type recordingLogger struct {
	mu            sync.Mutex
	warnMessages  []string
	errorMessages []string
}

func (l *recordingLogger) Debug(string, ...any) {}

func (l *recordingLogger) Info(string, ...any) {}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnMessages = append(l.warnMessages, msg)
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorMessages = append(l.errorMessages, msg)
}

func (l *recordingLogger) Fatal(string, ...any) {}

func (l *recordingLogger) warns() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.warnMessages...)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.WorkingHours.AlwaysAvailable)
	require.Equal(t, 8, cfg.WorkingHours.StartHour)
	require.Equal(t, 18, cfg.WorkingHours.EndHour)
	require.Equal(t, 30.0, cfg.Scoring.CapacityWeight)
	require.Equal(t, 20.0, cfg.Scoring.TerritoryBonus)
	require.Equal(t, 25.0, cfg.Scoring.SpecialtyBonus)
	require.Equal(t, 15.0, cfg.Scoring.LanguageBonus)
	require.Equal(t, 10.0, cfg.Scoring.SeniorBonus)
	require.Equal(t, 70, cfg.Scoring.SeniorMinScore)
	require.Equal(t, 0.5, cfg.Scoring.HighCapacityRatio)
	require.Equal(t, 0.9, cfg.Balance.OverloadedRatio)
	require.Equal(t, 0.5, cfg.Balance.UnderloadedRatio)
	require.Equal(t, 10*time.Second, cfg.OperationTimeout)
	require.NotNil(t, cfg.Rules)
	require.Equal(t, 7, cfg.Rules.ActiveCount())
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig().WorkingHours, cfg.WorkingHours)
		require.Equal(t, DefaultConfig().Scoring, cfg.Scoring)
		require.Equal(t, 10*time.Second, cfg.OperationTimeout)
		require.NotNil(t, cfg.Rules)
		require.NoError(t, cfg.Validate())
	})

	t.Run("preserves custom values", func(t *testing.T) {
		rules := rule.DefaultSet()
		rules.Budget.Enabled = false
		cfg := Config{
			WorkingHours:     WorkingHoursConfig{StartHour: 22, EndHour: 6, TimeZone: "UTC"},
			Scoring:          ScoringConfig{CapacityWeight: 50, TerritoryBonus: 50},
			Balance:          BalanceConfig{OverloadedRatio: 0.8, UnderloadedRatio: 0.2},
			OperationTimeout: 3 * time.Second,
			Rules:            rules,
		}
		SetDefaults(&cfg)

		require.Equal(t, 22, cfg.WorkingHours.StartHour)
		require.Equal(t, 50.0, cfg.Scoring.CapacityWeight)
		require.Zero(t, cfg.Scoring.SpecialtyBonus, "partially set scoring section is kept")
		require.Equal(t, 0.8, cfg.Balance.OverloadedRatio)
		require.Equal(t, 3*time.Second, cfg.OperationTimeout)
		require.Same(t, rules, cfg.Rules)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		errMsg string
	}{
		{"start hour out of range", func(c *Config) { c.WorkingHours.StartHour = 24 }, "startHour"},
		{"end hour out of range", func(c *Config) { c.WorkingHours.EndHour = 0 }, "endHour"},
		{"empty window", func(c *Config) { c.WorkingHours.StartHour, c.WorkingHours.EndHour = 9, 9 }, "empty"},
		{"unknown time zone", func(c *Config) { c.WorkingHours.TimeZone = "Mars/Olympus" }, "timeZone"},
		{"negative weight", func(c *Config) { c.Scoring.LanguageBonus = -1 }, "languageBonus"},
		{"senior score out of range", func(c *Config) { c.Scoring.SeniorMinScore = 101 }, "seniorMinScore"},
		{"underloaded above overloaded", func(c *Config) { c.Balance.UnderloadedRatio = 0.95 }, "underloadedRatio"},
		{"non-positive timeout", func(c *Config) { c.OperationTimeout = -time.Second }, "operationTimeout"},
		{"nil rules", func(c *Config) { c.Rules = nil }, "rules"},
		{"malformed rule group", func(c *Config) { c.Rules.Territory.Fallback = "" }, "territory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("always available skips the hours check", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WorkingHours = WorkingHoursConfig{AlwaysAvailable: true}
		require.NoError(t, cfg.Validate())
	})

	t.Run("overnight window is valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.WorkingHours.StartHour, cfg.WorkingHours.EndHour = 20, 4
		require.NoError(t, cfg.Validate())
	})
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	t.Run("defaults are quiet", func(t *testing.T) {
		logger := &recordingLogger{}
		cfg := DefaultConfig()
		cfg.ValidateWithWarnings(logger)
		require.Empty(t, logger.warns())
	})

	t.Run("unusual values warn", func(t *testing.T) {
		logger := &recordingLogger{}
		cfg := DefaultConfig()
		cfg.WorkingHours.AlwaysAvailable = true
		cfg.Scoring.SeniorBonus = 40
		cfg.Rules.Source.MatchAllRoster = true

		cfg.ValidateWithWarnings(logger)
		require.Len(t, logger.warns(), 3)
	})

	t.Run("no enabled rule warns", func(t *testing.T) {
		logger := &recordingLogger{}
		cfg := DefaultConfig()
		for _, r := range []*bool{
			&cfg.Rules.Territory.Enabled, &cfg.Rules.Score.Enabled, &cfg.Rules.Source.Enabled,
			&cfg.Rules.Specialty.Enabled, &cfg.Rules.Language.Enabled, &cfg.Rules.Budget.Enabled,
			&cfg.Rules.RoundRobin.Enabled,
		} {
			*r = false
		}

		cfg.ValidateWithWarnings(logger)
		require.Equal(t, []string{"no rule group is enabled, no work item can be assigned"}, logger.warns())
	})
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
workingHours:
  startHour: 9
  endHour: 17
  timeZone: America/Los_Angeles
operationTimeout: 3s
rules:
  territory:
    enabled: true
    fallback: Central
  roundRobin:
    enabled: true
    tieMargin: 2.5
`))
	require.NoError(t, err)

	require.Equal(t, 9, cfg.WorkingHours.StartHour)
	require.Equal(t, "America/Los_Angeles", cfg.WorkingHours.TimeZone)
	require.Equal(t, 3*time.Second, cfg.OperationTimeout)
	require.Equal(t, DefaultConfig().Scoring, cfg.Scoring, "missing section takes defaults")
	require.True(t, cfg.Rules.Territory.Enabled)
	require.False(t, cfg.Rules.Budget.Enabled, "rules section replaces the default set")
	require.Equal(t, 2.5, cfg.Rules.RoundRobin.TieMargin)
	require.NoError(t, cfg.Validate())

	_, err = ParseConfig([]byte("workingHours: [oops"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte("balance:\n  overloadedRatio: 0.8\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0.8, cfg.Balance.OverloadedRatio)
	require.Equal(t, 0.5, cfg.Balance.UnderloadedRatio)
	require.Equal(t, rule.DefaultSet(), cfg.Rules)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	require.True(t, cfg.WorkingHours.AlwaysAvailable)
	require.Equal(t, time.Second, cfg.OperationTimeout)
	require.NoError(t, cfg.Validate())
}
