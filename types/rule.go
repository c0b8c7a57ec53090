package types

// RuleKind identifies a rule group of the routing rule set.
type RuleKind string

// Rule group keys. The string values are the keys accepted by rule updates.
const (
	RuleTerritory  RuleKind = "territory"
	RuleScore      RuleKind = "score"
	RuleSource     RuleKind = "source"
	RuleSpecialty  RuleKind = "specialty"
	RuleLanguage   RuleKind = "language"
	RuleBudget     RuleKind = "budget"
	RuleRoundRobin RuleKind = "roundRobin"
)

// RuleKinds lists every rule group key in evaluation order.
var RuleKinds = []RuleKind{
	RuleTerritory,
	RuleScore,
	RuleSource,
	RuleSpecialty,
	RuleLanguage,
	RuleBudget,
	RuleRoundRobin,
}

// Rule is a candidate discovery dimension.
//
// Every rule variant contributes worker ids for a work item; the candidate set is the
// union of the contributions of all enabled rules.
//
// Implementations must be:
//   - Deterministic (same item and roster produce the same ids in the same order)
//   - Side-effect free (rules are shared by concurrent callers)
type Rule interface {
	// Kind returns the rule group key.
	Kind() RuleKind

	// IsEnabled reports whether the rule participates in candidate discovery.
	IsEnabled() bool

	// Validate checks the rule parameters.
	Validate() error

	// Contribute returns the ids of workers matching the work item on this dimension.
	//
	// Ids may reference workers that are not in the roster; the caller drops them.
	Contribute(item WorkItem, roster RosterView) []string
}
