// Package rule provides the routing rule variants and the rule set that groups them.
//
// Every candidate discovery dimension is a distinct type implementing types.Rule:
//
//   - TerritoryRule: derives a territory from the work item location via an ordered
//     keyword table (with a fallback territory) and matches workers registered there
//   - ScoreRule: maps the lead score to a minimum worker level via descending thresholds
//   - SourceRule: maps the lead source to a named worker group
//   - SpecialtyRule: exact property type lookup against explicit worker id lists
//   - LanguageRule: exact preferred language lookup against explicit worker id lists
//   - BudgetRule: descending budget tiers, first tier whose minimum fits wins
//
// RoundRobinPolicy is not a discovery dimension; it configures near-tie rotation
// in the selector but is updated through the same rule group mechanism.
//
// A Set is never mutated after it has been published to an engine. Apply returns a new
// Set with a shallow, per-group merge of the patch, so concurrent readers never observe
// a half-applied update.
package rule
