package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/leadroute/types"
)

// SourceRule maps a lead source to a named worker group.
//
// Groups resolve to explicit id lists through Members, mirroring the specialty and
// language tables. A source mapped to a group without members contributes nothing.
type SourceRule struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Groups maps a lead source (e.g., "Referral") to a group name (e.g., "preferredAgents").
	Groups map[string]string `yaml:"groups" json:"groups"`

	// Members maps a group name to worker ids.
	Members map[string][]string `yaml:"members,omitempty" json:"members,omitempty"`

	// MatchAllRoster makes any mapped source match the entire roster. It reproduces the
	// behavior of the legacy lead routing service and is off by default.
	MatchAllRoster bool `yaml:"matchAllRoster,omitempty" json:"matchAllRoster,omitempty"`
}

var _ types.Rule = SourceRule{}

// Kind returns types.RuleSource.
func (r SourceRule) Kind() types.RuleKind { return types.RuleSource }

// IsEnabled reports whether the rule is enabled.
func (r SourceRule) IsEnabled() bool { return r.Enabled }

// Group returns the worker group mapped to a lead source.
func (r SourceRule) Group(source string) (string, bool) {
	if source == "" {
		return "", false
	}
	g, ok := r.Groups[source]

	return g, ok
}

// Contribute returns the members of the group mapped to the item source.
func (r SourceRule) Contribute(item types.WorkItem, roster types.RosterView) []string {
	group, ok := r.Group(item.Source)
	if !ok {
		return nil
	}

	if r.MatchAllRoster {
		workers := roster.Workers()
		ids := make([]string, 0, len(workers))
		for _, w := range workers {
			ids = append(ids, w.ID)
		}

		return ids
	}

	return append([]string(nil), r.Members[group]...)
}

// Validate checks that every mapping names a group.
func (r SourceRule) Validate() error {
	for src, group := range r.Groups {
		if strings.TrimSpace(src) == "" {
			return errors.New("groups: empty source key")
		}
		if strings.TrimSpace(group) == "" {
			return fmt.Errorf("groups[%s]: group name must not be empty", src)
		}
	}

	return validateTable("members", r.Members)
}
