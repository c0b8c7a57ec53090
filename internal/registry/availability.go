package registry

import (
	"fmt"
	"time"
)

// WorkingHours is the daily window during which workers can receive work.
//
// The window is [StartHour, EndHour) in Location. A window with StartHour > EndHour
// wraps past midnight.
type WorkingHours struct {
	AlwaysAvailable bool
	StartHour       int
	EndHour         int
	Location        *time.Location
}

// DefaultWorkingHours returns the 08:00-18:00 local time window.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: 8, EndHour: 18, Location: time.Local}
}

// Validate checks the window bounds.
func (w WorkingHours) Validate() error {
	if w.AlwaysAvailable {
		return nil
	}
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("start hour %d outside [0, 23]", w.StartHour)
	}
	if w.EndHour < 0 || w.EndHour > 24 {
		return fmt.Errorf("end hour %d outside [0, 24]", w.EndHour)
	}
	if w.StartHour == w.EndHour {
		return fmt.Errorf("empty working hours window [%d, %d)", w.StartHour, w.EndHour)
	}

	return nil
}

// Contains reports whether t falls inside the window.
func (w WorkingHours) Contains(t time.Time) bool {
	if w.AlwaysAvailable {
		return true
	}

	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	h := t.In(loc).Hour()

	if w.StartHour < w.EndHour {
		return h >= w.StartHour && h < w.EndHour
	}

	return h >= w.StartHour || h < w.EndHour
}
