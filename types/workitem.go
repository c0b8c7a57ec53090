package types

import "strings"

// WorkItem is an incoming unit of work (a lead) to be assigned to one worker.
//
// A WorkItem is treated as immutable for the duration of an assignment attempt.
type WorkItem struct {
	// ID uniquely identifies the work item in the caller's system.
	ID string `json:"id" yaml:"id"`

	// Score is the lead quality score in [0, 100].
	Score int `json:"score" yaml:"score"`

	// Source is the channel the work item came from (e.g., "Referral", "Website").
	Source string `json:"source" yaml:"source"`

	// PropertyType is the kind of property the lead is interested in (e.g., "Condo").
	PropertyType string `json:"propertyType" yaml:"propertyType"`

	// PreferredLanguage is the language the lead prefers to be served in.
	PreferredLanguage string `json:"preferredLanguage" yaml:"preferredLanguage"`

	// Budget is the lead's budget. Zero means unknown.
	Budget float64 `json:"budget" yaml:"budget"`

	// Location is a free-form location string used to derive a territory.
	Location string `json:"location" yaml:"location"`
}

// Validate checks the work item shape at the engine boundary.
//
// Returns:
//   - error: *ValidationError naming the offending field, nil if valid
func (w WorkItem) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return &ValidationError{WorkItemID: w.ID, Field: "id", Reason: "must not be empty"}
	}
	if w.Score < 0 || w.Score > 100 {
		return &ValidationError{WorkItemID: w.ID, Field: "score", Reason: "must be within [0, 100]"}
	}
	if w.Budget < 0 {
		return &ValidationError{WorkItemID: w.ID, Field: "budget", Reason: "must not be negative"}
	}

	return nil
}
