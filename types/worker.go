package types

import (
	"fmt"
	"math"
	"slices"
)

// Level is the seniority level of a worker.
type Level string

// Worker levels ordered from lowest to highest.
const (
	LevelJunior Level = "junior"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
)

// Levels lists all known levels from highest to lowest.
var Levels = []Level{LevelSenior, LevelMid, LevelJunior}

// Rank returns the ordinal of the level (junior=1, mid=2, senior=3), 0 if unknown.
func (l Level) Rank() int {
	switch l {
	case LevelJunior:
		return 1
	case LevelMid:
		return 2
	case LevelSenior:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the level is one of the known levels.
func (l Level) Valid() bool {
	return l.Rank() > 0
}

// AtLeast reports whether l is the same as or strictly higher than other.
func (l Level) AtLeast(other Level) bool {
	return l.Valid() && l.Rank() >= other.Rank()
}

// Worker is an agent capable of receiving work items.
//
// Invariant: 0 <= CurrentLoad <= MaxCapacity.
type Worker struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Level       Level    `json:"level" yaml:"level"`
	Specialties []string `json:"specialties" yaml:"specialties"`
	Languages   []string `json:"languages" yaml:"languages"`
	Territories []string `json:"territories" yaml:"territories"`
	MaxCapacity int      `json:"maxCapacity" yaml:"maxCapacity"`
	CurrentLoad int      `json:"currentLoad" yaml:"currentLoad"`
}

// Validate checks the worker record shape.
func (w Worker) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: worker id must not be empty", ErrInvalidWorker)
	}
	if !w.Level.Valid() {
		return fmt.Errorf("%w: worker %s has unknown level %q", ErrInvalidWorker, w.ID, w.Level)
	}
	if w.MaxCapacity < 0 {
		return fmt.Errorf("%w: worker %s has negative max capacity %d", ErrInvalidWorker, w.ID, w.MaxCapacity)
	}

	return nil
}

// HasSpecialty reports whether the worker lists the given specialty.
func (w Worker) HasSpecialty(s string) bool { return s != "" && slices.Contains(w.Specialties, s) }

// SpeaksLanguage reports whether the worker lists the given language.
func (w Worker) SpeaksLanguage(lang string) bool {
	return lang != "" && slices.Contains(w.Languages, lang)
}

// InTerritory reports whether the worker is registered under the given territory.
func (w Worker) InTerritory(t string) bool { return t != "" && slices.Contains(w.Territories, t) }

// HasCapacity reports whether the worker can take at least one more work item.
func (w Worker) HasCapacity() bool { return w.CurrentLoad < w.MaxCapacity }

// AvailableCapacity returns MaxCapacity - CurrentLoad, never negative.
func (w Worker) AvailableCapacity() int { return max(w.MaxCapacity-w.CurrentLoad, 0) }

// Utilization returns CurrentLoad / MaxCapacity. A worker without capacity is fully utilized.
func (w Worker) Utilization() float64 {
	if w.MaxCapacity <= 0 {
		return 1
	}

	return float64(w.CurrentLoad) / float64(w.MaxCapacity)
}

// UtilizationPercent returns the utilization rounded to the nearest whole percent.
func (w Worker) UtilizationPercent() int {
	return int(math.Round(w.Utilization() * 100))
}

// Clone returns a deep copy of the worker.
func (w Worker) Clone() Worker {
	w.Specialties = slices.Clone(w.Specialties)
	w.Languages = slices.Clone(w.Languages)
	w.Territories = slices.Clone(w.Territories)

	return w
}
