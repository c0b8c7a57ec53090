package leadroute

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute/rule"
)

// WorkingHoursConfig controls the daily availability window.
type WorkingHoursConfig struct {
	// AlwaysAvailable disables the working hours check. Capacity is still enforced.
	AlwaysAvailable bool `yaml:"alwaysAvailable"`

	// StartHour is the first hour of the window (inclusive, 0-23).
	StartHour int `yaml:"startHour"`

	// EndHour is the end of the window (exclusive, 1-24). A value lower than StartHour
	// makes the window wrap past midnight.
	EndHour int `yaml:"endHour"`

	// TimeZone is an IANA zone name evaluated for the window ("" means local time).
	TimeZone string `yaml:"timeZone"`
}

// ScoringConfig holds the weights of the composite match score.
//
// With the defaults the score of a perfect match is 100.
type ScoringConfig struct {
	// CapacityWeight multiplies the free capacity ratio (1 - load/capacity).
	CapacityWeight float64 `yaml:"capacityWeight"`

	// TerritoryBonus is added when the worker covers the derived territory.
	TerritoryBonus float64 `yaml:"territoryBonus"`

	// SpecialtyBonus is added when the worker lists the property type.
	SpecialtyBonus float64 `yaml:"specialtyBonus"`

	// LanguageBonus is added when the worker speaks the preferred language.
	LanguageBonus float64 `yaml:"languageBonus"`

	// SeniorBonus is added for senior workers on work items scoring above SeniorMinScore.
	SeniorBonus float64 `yaml:"seniorBonus"`

	// SeniorMinScore is the exclusive work item score above which SeniorBonus applies.
	SeniorMinScore int `yaml:"seniorMinScore"`

	// HighCapacityRatio is the free capacity ratio above which "High capacity" is reported.
	HighCapacityRatio float64 `yaml:"highCapacityRatio"`
}

// BalanceConfig controls workload classification.
type BalanceConfig struct {
	// OverloadedRatio is the utilization above which a worker is overloaded.
	OverloadedRatio float64 `yaml:"overloadedRatio"`

	// UnderloadedRatio is the utilization below which a worker is underloaded.
	UnderloadedRatio float64 `yaml:"underloadedRatio"`
}

// Config is the configuration for the Engine.
//
// Duration fields accept Go duration strings like "5s" or "1m".
type Config struct {
	// WorkingHours controls when workers can receive work.
	WorkingHours WorkingHoursConfig `yaml:"workingHours"`

	// Scoring controls candidate ranking.
	Scoring ScoringConfig `yaml:"scoring"`

	// Balance controls the workload diagnostic.
	Balance BalanceConfig `yaml:"balance"`

	// OperationTimeout bounds roster source calls made by Refresh.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// Rules is the initial routing rule set. Nil means rule.DefaultSet().
	Rules *rule.Set `yaml:"rules"`
}

// DefaultConfig returns a Config with production defaults.
//
// Returns:
//   - Config: Configuration with default values and the default rule set
func DefaultConfig() Config {
	return Config{
		WorkingHours: WorkingHoursConfig{
			StartHour: 8,
			EndHour:   18,
		},
		Scoring: ScoringConfig{
			CapacityWeight:    30,
			TerritoryBonus:    20,
			SpecialtyBonus:    25,
			LanguageBonus:     15,
			SeniorBonus:       10,
			SeniorMinScore:    70,
			HighCapacityRatio: 0.5,
		},
		Balance: BalanceConfig{
			OverloadedRatio:  0.9,
			UnderloadedRatio: 0.5,
		},
		OperationTimeout: 10 * time.Second,
		Rules:            rule.DefaultSet(),
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// A zero WorkingHours section means 08:00-18:00. A scoring section that is entirely zero
// takes the default weights; partially set sections are kept as given.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.WorkingHours == (WorkingHoursConfig{}) {
		cfg.WorkingHours = defaults.WorkingHours
	}
	if cfg.Scoring == (ScoringConfig{}) {
		cfg.Scoring = defaults.Scoring
	}
	if cfg.Balance.OverloadedRatio == 0 {
		cfg.Balance.OverloadedRatio = defaults.Balance.OverloadedRatio
	}
	if cfg.Balance.UnderloadedRatio == 0 {
		cfg.Balance.UnderloadedRatio = defaults.Balance.UnderloadedRatio
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.Rules == nil {
		cfg.Rules = defaults.Rules
	}
}

// Validate checks configuration constraints.
//
// Hard Validation Rules:
//   - Working hours lie within a day and are not empty (unless AlwaysAvailable)
//   - TimeZone is a known IANA zone
//   - Scoring weights and thresholds are not negative
//   - 0 < UnderloadedRatio <= OverloadedRatio
//   - OperationTimeout > 0
//   - Every rule group is well formed
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	wh := cfg.WorkingHours
	if !wh.AlwaysAvailable {
		if wh.StartHour < 0 || wh.StartHour > 23 {
			return fmt.Errorf("workingHours.startHour (%d) must be within [0, 23]", wh.StartHour)
		}
		if wh.EndHour < 1 || wh.EndHour > 24 {
			return fmt.Errorf("workingHours.endHour (%d) must be within [1, 24]", wh.EndHour)
		}
		if wh.StartHour == wh.EndHour {
			return fmt.Errorf("workingHours window [%d, %d) is empty", wh.StartHour, wh.EndHour)
		}
	}
	if _, err := cfg.location(); err != nil {
		return fmt.Errorf("workingHours.timeZone: %w", err)
	}

	sc := cfg.Scoring
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"capacityWeight", sc.CapacityWeight},
		{"territoryBonus", sc.TerritoryBonus},
		{"specialtyBonus", sc.SpecialtyBonus},
		{"languageBonus", sc.LanguageBonus},
		{"seniorBonus", sc.SeniorBonus},
		{"highCapacityRatio", sc.HighCapacityRatio},
	} {
		if w.value < 0 {
			return fmt.Errorf("scoring.%s (%v) must not be negative", w.name, w.value)
		}
	}
	if sc.SeniorMinScore < 0 || sc.SeniorMinScore > 100 {
		return fmt.Errorf("scoring.seniorMinScore (%d) must be within [0, 100]", sc.SeniorMinScore)
	}

	if cfg.Balance.UnderloadedRatio <= 0 || cfg.Balance.UnderloadedRatio > cfg.Balance.OverloadedRatio {
		return fmt.Errorf(
			"balance.underloadedRatio (%v) must be > 0 and <= balance.overloadedRatio (%v)",
			cfg.Balance.UnderloadedRatio, cfg.Balance.OverloadedRatio,
		)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("operationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	if cfg.Rules == nil {
		return errors.New("rules must not be nil")
	}
	if err := cfg.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	return nil
}

// ValidateWithWarnings logs warnings for legal but unusual values.
//
// This is called after Validate() in NewEngine() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.WorkingHours.AlwaysAvailable {
		logger.Warn("working hours check disabled, workers receive work around the clock")
	}

	sc := cfg.Scoring
	if maxScore := sc.CapacityWeight + sc.TerritoryBonus + sc.SpecialtyBonus + sc.LanguageBonus + sc.SeniorBonus; maxScore != 100 {
		logger.Warn(
			"scoring weights do not add up to 100, match scores leave the usual range",
			"maxScore", maxScore,
		)
	}

	if cfg.Rules.RoundRobin.Enabled && cfg.Rules.RoundRobin.Margin() > sc.CapacityWeight {
		logger.Warn(
			"round-robin tie margin exceeds the capacity weight, rotation may override rule matches",
			"tieMargin", cfg.Rules.RoundRobin.Margin(),
			"capacityWeight", sc.CapacityWeight,
		)
	}

	if cfg.Rules.Source.Enabled && cfg.Rules.Source.MatchAllRoster {
		logger.Warn("source rule matches the entire roster, every available worker becomes a candidate")
	}

	if cfg.Rules.ActiveCount() == 0 {
		logger.Warn("no rule group is enabled, no work item can be assigned")
	}
}

// LoadConfig reads a YAML configuration file and applies defaults.
//
// A rules section, when present, replaces the default rule set as a whole.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Loaded configuration with defaults applied (not yet validated)
//   - error: Read or decode error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration document and applies defaults.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	SetDefaults(&cfg)

	return cfg, nil
}

// TestConfig returns a configuration suited to tests: workers are always available.
//
// Example:
//
//	cfg := leadroute.TestConfig()
//	engine, err := leadroute.NewEngine(&cfg, source.NewStatic(workers))
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.WorkingHours.AlwaysAvailable = true
	cfg.OperationTimeout = time.Second

	return cfg
}

func (cfg *Config) location() (*time.Location, error) {
	if cfg.WorkingHours.TimeZone == "" {
		return time.Local, nil
	}

	return time.LoadLocation(cfg.WorkingHours.TimeZone)
}
