package rule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/arloliu/leadroute/types"
)

// BudgetTier lists the workers serving budgets at or above MinBudget.
type BudgetTier struct {
	MinBudget float64  `yaml:"minBudget" json:"minBudget"`
	Workers   []string `yaml:"workers" json:"workers"`
}

// BudgetRule matches the workers of the highest tier whose minimum fits the budget.
type BudgetRule struct {
	Enabled bool         `yaml:"enabled" json:"enabled"`
	Tiers   []BudgetTier `yaml:"tiers" json:"tiers"`
}

var _ types.Rule = BudgetRule{}

// Kind returns types.RuleBudget.
func (r BudgetRule) Kind() types.RuleKind { return types.RuleBudget }

// IsEnabled reports whether the rule is enabled.
func (r BudgetRule) IsEnabled() bool { return r.Enabled }

// Tier returns the tier serving the budget. Tiers are checked by descending minimum
// regardless of their configured order.
func (r BudgetRule) Tier(budget float64) (BudgetTier, bool) {
	tiers := slices.Clone(r.Tiers)
	slices.SortStableFunc(tiers, func(a, b BudgetTier) int {
		return cmp.Compare(b.MinBudget, a.MinBudget)
	})

	for _, t := range tiers {
		if t.MinBudget <= budget {
			return t, true
		}
	}

	return BudgetTier{}, false
}

// Contribute returns the workers of the matching tier. An unknown (zero) budget
// contributes nothing.
func (r BudgetRule) Contribute(item types.WorkItem, _ types.RosterView) []string {
	if item.Budget <= 0 {
		return nil
	}

	tier, ok := r.Tier(item.Budget)
	if !ok {
		return nil
	}

	return append([]string(nil), tier.Workers...)
}

// Validate checks tier minimums.
func (r BudgetRule) Validate() error {
	seen := make(map[float64]struct{}, len(r.Tiers))
	for i, t := range r.Tiers {
		if t.MinBudget < 0 {
			return fmt.Errorf("tiers[%d]: minBudget %v must not be negative", i, t.MinBudget)
		}
		if _, dup := seen[t.MinBudget]; dup {
			return fmt.Errorf("tiers[%d]: duplicate minBudget %v", i, t.MinBudget)
		}
		seen[t.MinBudget] = struct{}{}
	}

	return nil
}
