package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/leadroute/types"
)

// TerritoryKeywords maps a territory label to the location keywords that select it.
type TerritoryKeywords struct {
	Territory string   `yaml:"territory" json:"territory"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
}

// TerritoryRule matches workers registered under the territory derived from the
// work item location.
type TerritoryRule struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Keywords is checked in order; the first entry with a keyword contained in the
	// lower-cased location wins.
	Keywords []TerritoryKeywords `yaml:"keywords" json:"keywords"`

	// Fallback is the territory used when no keyword matches a non-empty location.
	Fallback string `yaml:"fallback" json:"fallback"`

	// Members optionally lists worker ids per territory in addition to the workers
	// whose own territory set contains the territory.
	Members map[string][]string `yaml:"members,omitempty" json:"members,omitempty"`
}

var _ types.Rule = TerritoryRule{}

// Kind returns types.RuleTerritory.
func (r TerritoryRule) Kind() types.RuleKind { return types.RuleTerritory }

// IsEnabled reports whether the rule is enabled.
func (r TerritoryRule) IsEnabled() bool { return r.Enabled }

// Detect derives a territory label from a location string.
//
// Returns "" for an empty location and Fallback when no keyword matches.
func (r TerritoryRule) Detect(location string) string {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return ""
	}

	for _, entry := range r.Keywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(loc, strings.ToLower(kw)) {
				return entry.Territory
			}
		}
	}

	return r.Fallback
}

// Contribute returns explicit members of the derived territory followed by the
// workers registered under it.
func (r TerritoryRule) Contribute(item types.WorkItem, roster types.RosterView) []string {
	territory := r.Detect(item.Location)
	if territory == "" {
		return nil
	}

	ids := append([]string(nil), r.Members[territory]...)
	for _, w := range roster.FindByTerritory(territory) {
		ids = append(ids, w.ID)
	}

	return ids
}

// Validate checks the keyword table and fallback.
func (r TerritoryRule) Validate() error {
	if strings.TrimSpace(r.Fallback) == "" {
		return errors.New("fallback territory must not be empty")
	}
	for i, entry := range r.Keywords {
		if strings.TrimSpace(entry.Territory) == "" {
			return fmt.Errorf("keywords[%d]: territory must not be empty", i)
		}
		if len(entry.Keywords) == 0 {
			return fmt.Errorf("keywords[%d] (%s): at least one keyword is required", i, entry.Territory)
		}
		for _, kw := range entry.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("keywords[%d] (%s): empty keyword", i, entry.Territory)
			}
		}
	}

	return validateTable("members", r.Members)
}
