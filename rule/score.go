package rule

import (
	"errors"
	"fmt"

	"github.com/arloliu/leadroute/types"
)

// ScoreThreshold maps a minimum lead score to a minimum worker level.
type ScoreThreshold struct {
	MinScore int         `yaml:"minScore" json:"minScore"`
	Level    types.Level `yaml:"level" json:"level"`
}

// ScoreRule matches every worker at or above the level required by the lead score.
type ScoreRule struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Thresholds must be ordered by descending MinScore; the first satisfied wins.
	Thresholds []ScoreThreshold `yaml:"thresholds" json:"thresholds"`
}

var _ types.Rule = ScoreRule{}

// Kind returns types.RuleScore.
func (r ScoreRule) Kind() types.RuleKind { return types.RuleScore }

// IsEnabled reports whether the rule is enabled.
func (r ScoreRule) IsEnabled() bool { return r.Enabled }

// RequiredLevel returns the minimum worker level for a lead score.
//
// Scores below every threshold require types.LevelJunior.
func (r ScoreRule) RequiredLevel(score int) types.Level {
	for _, th := range r.Thresholds {
		if score >= th.MinScore {
			return th.Level
		}
	}

	return types.LevelJunior
}

// Contribute returns, in roster order, every worker at the required level or higher.
//
// A score of 0 is a real score and maps to the lowest threshold, so it matches the
// whole roster.
func (r ScoreRule) Contribute(item types.WorkItem, roster types.RosterView) []string {
	required := r.RequiredLevel(item.Score)

	var ids []string
	for _, w := range roster.Workers() {
		if w.Level.AtLeast(required) {
			ids = append(ids, w.ID)
		}
	}

	return ids
}

// Validate checks that thresholds are strictly descending and name known levels.
func (r ScoreRule) Validate() error {
	if r.Enabled && len(r.Thresholds) == 0 {
		return errors.New("at least one threshold is required when enabled")
	}
	for i, th := range r.Thresholds {
		if th.MinScore < 0 || th.MinScore > 100 {
			return fmt.Errorf("thresholds[%d]: minScore %d outside [0, 100]", i, th.MinScore)
		}
		if !th.Level.Valid() {
			return fmt.Errorf("thresholds[%d]: unknown level %q", i, th.Level)
		}
		if i > 0 && th.MinScore >= r.Thresholds[i-1].MinScore {
			return fmt.Errorf("thresholds[%d]: minScore %d must be lower than the previous threshold %d",
				i, th.MinScore, r.Thresholds[i-1].MinScore)
		}
	}

	return nil
}
