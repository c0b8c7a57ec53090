package rule

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute/types"
)

// Set is the full routing rule configuration.
//
// A Set handed to an engine must be treated as immutable; use Apply to derive an
// updated copy.
type Set struct {
	Territory  TerritoryRule    `yaml:"territory" json:"territory"`
	Score      ScoreRule        `yaml:"score" json:"score"`
	Source     SourceRule       `yaml:"source" json:"source"`
	Specialty  SpecialtyRule    `yaml:"specialty" json:"specialty"`
	Language   LanguageRule     `yaml:"language" json:"language"`
	Budget     BudgetRule       `yaml:"budget" json:"budget"`
	RoundRobin RoundRobinPolicy `yaml:"roundRobin" json:"roundRobin"`
}

// group is implemented by every rule group value.
type group interface {
	Validate() error
}

// Rules returns the discovery rules in evaluation order, enabled or not.
func (s *Set) Rules() []types.Rule {
	return []types.Rule{s.Territory, s.Score, s.Source, s.Specialty, s.Language, s.Budget}
}

// EnabledRules returns the enabled discovery rules in evaluation order.
func (s *Set) EnabledRules() []types.Rule {
	var out []types.Rule
	for _, r := range s.Rules() {
		if r.IsEnabled() {
			out = append(out, r)
		}
	}

	return out
}

// ActiveCount returns the number of enabled rule groups, round-robin included.
func (s *Set) ActiveCount() int {
	n := len(s.EnabledRules())
	if s.RoundRobin.Enabled {
		n++
	}

	return n
}

// Validate checks every group.
//
// Returns:
//   - error: errors.Join of *types.ConfigurationError, one per malformed group
func (s *Set) Validate() error {
	var errs []error
	for _, kind := range types.RuleKinds {
		if err := s.get(kind).Validate(); err != nil {
			errs = append(errs, &types.ConfigurationError{Group: kind, Err: err})
		}
	}

	return errors.Join(errs...)
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	c := *s
	c.Territory.Keywords = slices.Clone(s.Territory.Keywords)
	for i := range c.Territory.Keywords {
		c.Territory.Keywords[i].Keywords = slices.Clone(c.Territory.Keywords[i].Keywords)
	}
	c.Territory.Members = cloneTable(s.Territory.Members)
	c.Score.Thresholds = slices.Clone(s.Score.Thresholds)
	c.Source.Groups = maps.Clone(s.Source.Groups)
	c.Source.Members = cloneTable(s.Source.Members)
	c.Specialty.Specialists = cloneTable(s.Specialty.Specialists)
	c.Language.Languages = cloneTable(s.Language.Languages)
	c.Budget.Tiers = slices.Clone(s.Budget.Tiers)
	for i := range c.Budget.Tiers {
		c.Budget.Tiers[i].Workers = slices.Clone(c.Budget.Tiers[i].Workers)
	}

	return &c
}

// Fingerprints returns an xxh3 hash of the canonical YAML encoding of every group.
//
// Two sets with equal fingerprints for a group configure that group identically.
//
// Returns:
//   - map[types.RuleKind]uint64: Fingerprint per rule group
//   - error: Encoding error of the first group that could not be hashed
func (s *Set) Fingerprints() (map[types.RuleKind]uint64, error) {
	out := make(map[types.RuleKind]uint64, len(types.RuleKinds))
	for _, kind := range types.RuleKinds {
		sum, err := fingerprint(s.get(kind))
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s rules: %w", kind, err)
		}
		out[kind] = sum
	}

	return out, nil
}

func fingerprint(v any) (uint64, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return 0, err
	}

	return xxh3.Hash(data), nil
}

func (s *Set) get(kind types.RuleKind) group {
	switch kind {
	case types.RuleTerritory:
		return s.Territory
	case types.RuleScore:
		return s.Score
	case types.RuleSource:
		return s.Source
	case types.RuleSpecialty:
		return s.Specialty
	case types.RuleLanguage:
		return s.Language
	case types.RuleBudget:
		return s.Budget
	case types.RuleRoundRobin:
		return s.RoundRobin
	default:
		return nil
	}
}

func (s *Set) set(g group) {
	switch v := g.(type) {
	case TerritoryRule:
		s.Territory = v
	case ScoreRule:
		s.Score = v
	case SourceRule:
		s.Source = v
	case SpecialtyRule:
		s.Specialty = v
	case LanguageRule:
		s.Language = v
	case BudgetRule:
		s.Budget = v
	case RoundRobinPolicy:
		s.RoundRobin = v
	}
}

func cloneTable(t map[string][]string) map[string][]string {
	if t == nil {
		return nil
	}
	out := make(map[string][]string, len(t))
	for k, v := range t {
		out[k] = slices.Clone(v)
	}

	return out
}
