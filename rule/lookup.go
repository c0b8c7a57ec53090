package rule

import (
	"fmt"
	"strings"

	"github.com/arloliu/leadroute/types"
)

// SpecialtyRule matches the explicit specialists listed for the item's property type.
type SpecialtyRule struct {
	Enabled     bool                `yaml:"enabled" json:"enabled"`
	Specialists map[string][]string `yaml:"specialists" json:"specialists"`
}

var _ types.Rule = SpecialtyRule{}

// Kind returns types.RuleSpecialty.
func (r SpecialtyRule) Kind() types.RuleKind { return types.RuleSpecialty }

// IsEnabled reports whether the rule is enabled.
func (r SpecialtyRule) IsEnabled() bool { return r.Enabled }

// Contribute returns the specialists for the item's property type.
func (r SpecialtyRule) Contribute(item types.WorkItem, _ types.RosterView) []string {
	return lookup(r.Specialists, item.PropertyType)
}

// Validate checks the specialist table.
func (r SpecialtyRule) Validate() error { return validateTable("specialists", r.Specialists) }

// LanguageRule matches the explicit workers listed for the item's preferred language.
type LanguageRule struct {
	Enabled   bool                `yaml:"enabled" json:"enabled"`
	Languages map[string][]string `yaml:"languages" json:"languages"`
}

var _ types.Rule = LanguageRule{}

// Kind returns types.RuleLanguage.
func (r LanguageRule) Kind() types.RuleKind { return types.RuleLanguage }

// IsEnabled reports whether the rule is enabled.
func (r LanguageRule) IsEnabled() bool { return r.Enabled }

// Contribute returns the workers listed for the item's preferred language.
func (r LanguageRule) Contribute(item types.WorkItem, _ types.RosterView) []string {
	return lookup(r.Languages, item.PreferredLanguage)
}

// Validate checks the language table.
func (r LanguageRule) Validate() error { return validateTable("languages", r.Languages) }

// lookup is an exact, case-sensitive table lookup.
func lookup(table map[string][]string, key string) []string {
	if key == "" {
		return nil
	}

	return append([]string(nil), table[key]...)
}

func validateTable(name string, table map[string][]string) error {
	for key, ids := range table {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%s: empty key", name)
		}
		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("%s[%s]: empty worker id", name, key)
			}
		}
	}

	return nil
}
