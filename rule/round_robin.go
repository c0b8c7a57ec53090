package rule

import "fmt"

// DefaultTieMargin is the score gap under which top candidates are considered near-tied.
const DefaultTieMargin = 10.0

// RoundRobinPolicy configures rotation among near-tied top candidates.
type RoundRobinPolicy struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// TieMargin is the score gap defining the near-tie group. Zero means DefaultTieMargin.
	TieMargin float64 `yaml:"tieMargin,omitempty" json:"tieMargin,omitempty"`
}

// Margin returns the effective tie margin.
func (p RoundRobinPolicy) Margin() float64 {
	if p.TieMargin == 0 {
		return DefaultTieMargin
	}

	return p.TieMargin
}

// Validate checks the tie margin.
func (p RoundRobinPolicy) Validate() error {
	if p.TieMargin < 0 {
		return fmt.Errorf("tieMargin %v must not be negative", p.TieMargin)
	}

	return nil
}
