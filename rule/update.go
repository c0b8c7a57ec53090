package rule

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/leadroute/types"
)

// Patch is a partial rule update keyed by rule group.
//
// Each value holds the group fields to overwrite, keyed by their YAML names, e.g.
//
//	rule.Patch{
//	    "roundRobin": {"enabled": false},
//	    "budget":     {"tiers": []any{map[string]any{"minBudget": 0, "workers": []string{"agent_entry_001"}}}},
//	}
type Patch map[string]map[string]any

// ParsePatch decodes a YAML (or JSON) document into a Patch.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidRule, err)
	}

	return p, nil
}

// UpdateResult reports the outcome of Apply per rule group.
type UpdateResult struct {
	// Changed lists accepted groups whose configuration differs from before.
	Changed []types.RuleKind

	// Unchanged lists accepted groups whose configuration is identical to before.
	Unchanged []types.RuleKind

	// Rejected maps malformed groups to their *types.ConfigurationError.
	Rejected map[types.RuleKind]error
}

// Apply returns a new Set with the patch merged in.
//
// For every group named in the patch, the provided fields replace the current ones
// (a shallow merge per group) and the merged group is validated on its own. A group
// that fails to decode or validate is rejected without affecting the other groups.
// The receiver is never modified.
//
// Parameters:
//   - patch: Partial update keyed by rule group
//
// Returns:
//   - *Set: Updated copy (equal to a clone of the receiver if everything was rejected)
//   - UpdateResult: Per-group outcome
//   - error: errors.Join of the rejected groups' errors, nil if all were accepted
func (s *Set) Apply(patch Patch) (*Set, UpdateResult, error) {
	next := s.Clone()
	result := UpdateResult{Rejected: map[types.RuleKind]error{}}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		kind := types.RuleKind(key)
		merged, err := mergeGroup(s.get(kind), kind, patch[key])
		if err != nil {
			cfgErr := &types.ConfigurationError{Group: kind, Err: err}
			result.Rejected[kind] = cfgErr
			errs = append(errs, cfgErr)

			continue
		}

		changed, err := differs(merged, s.get(kind))
		if err != nil {
			cfgErr := &types.ConfigurationError{Group: kind, Err: err}
			result.Rejected[kind] = cfgErr
			errs = append(errs, cfgErr)

			continue
		}

		if changed {
			result.Changed = append(result.Changed, kind)
		} else {
			result.Unchanged = append(result.Unchanged, kind)
		}
		next.set(merged)
	}

	return next, result, errors.Join(errs...)
}

// mergeGroup overlays fields on the YAML form of current and decodes the result
// strictly into a fresh group value.
func mergeGroup(current group, kind types.RuleKind, fields map[string]any) (group, error) {
	if current == nil {
		return nil, types.ErrUnknownRuleGroup
	}

	data, err := yaml.Marshal(current)
	if err != nil {
		return nil, err
	}
	base := map[string]any{}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, err
	}
	for k, v := range fields {
		base[k] = v
	}

	merged, err := yaml.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged group: %w", err)
	}

	g, err := decodeGroup(kind, merged)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

func decodeGroup(kind types.RuleKind, data []byte) (group, error) {
	switch kind {
	case types.RuleTerritory:
		return strictDecode[TerritoryRule](data)
	case types.RuleScore:
		return strictDecode[ScoreRule](data)
	case types.RuleSource:
		return strictDecode[SourceRule](data)
	case types.RuleSpecialty:
		return strictDecode[SpecialtyRule](data)
	case types.RuleLanguage:
		return strictDecode[LanguageRule](data)
	case types.RuleBudget:
		return strictDecode[BudgetRule](data)
	case types.RuleRoundRobin:
		return strictDecode[RoundRobinPolicy](data)
	default:
		return nil, types.ErrUnknownRuleGroup
	}
}

func strictDecode[T group](data []byte) (group, error) {
	var g T
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return nil, err
	}

	return g, nil
}

// differs reports whether two groups have different fingerprints.
func differs(a, b group) (bool, error) {
	fa, err := fingerprint(a)
	if err != nil {
		return false, err
	}
	fb, err := fingerprint(b)
	if err != nil {
		return false, err
	}

	return fa != fb, nil
}
