package leadroute

import (
	"github.com/arloliu/leadroute/rule"
	"github.com/arloliu/leadroute/types"
)

// Re-export types from the types package.
//
// Internal packages depend on types rather than on the root package, which keeps the
// import graph acyclic while users still write leadroute.WorkItem, leadroute.Logger
// and so on.
type (
	WorkItem          = types.WorkItem
	Worker            = types.Worker
	Level             = types.Level
	Roster            = types.Roster
	Assignment        = types.Assignment
	Reassignment      = types.Reassignment
	WorkerSummary     = types.WorkerSummary
	Workload          = types.Workload
	BalanceReport     = types.BalanceReport
	WorkerUtilization = types.WorkerUtilization

	ConfigurationError = types.ConfigurationError
	NotFoundError      = types.NotFoundError
	ValidationError    = types.ValidationError
)

// Re-export interfaces from the types package.
type (
	WorkerStore      = types.WorkerStore
	RosterSource     = types.RosterSource
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export rule update types.
type (
	RuleKind     = types.RuleKind
	RulePatch    = rule.Patch
	UpdateResult = rule.UpdateResult
)

// Re-export rule group keys.
const (
	RuleTerritory  = types.RuleTerritory
	RuleScore      = types.RuleScore
	RuleSource     = types.RuleSource
	RuleSpecialty  = types.RuleSpecialty
	RuleLanguage   = types.RuleLanguage
	RuleBudget     = types.RuleBudget
	RuleRoundRobin = types.RuleRoundRobin
)

// Re-export Level constants.
const (
	LevelJunior = types.LevelJunior
	LevelMid    = types.LevelMid
	LevelSenior = types.LevelSenior
)

// RoutingRules is the rule configuration report.
type RoutingRules struct {
	// Rules is a copy of the rule set in effect.
	Rules *rule.Set `json:"rules" yaml:"rules"`

	// ActiveRuleCount is the number of enabled rule groups, round-robin included.
	ActiveRuleCount int `json:"activeRuleCount" yaml:"activeRuleCount"`

	// Workers summarizes every registered worker in roster order.
	Workers []WorkerSummary `json:"workers" yaml:"workers"`
}
