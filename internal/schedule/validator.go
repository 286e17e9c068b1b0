package schedule

import (
	"fmt"

	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// Default duration bounds in minutes.
const (
	DefaultMinDuration = 5
	DefaultMaxDuration = 120
)

// Constraints bound every assignment of a schedule.
type Constraints struct {
	Window      timeslot.Window
	MinDuration int
	MaxDuration int
}

// DefaultConstraints returns the 16:30-20:00 window with 5-120 minute durations.
func DefaultConstraints() Constraints {
	return Constraints{
		Window:      timeslot.DefaultWindow(),
		MinDuration: DefaultMinDuration,
		MaxDuration: DefaultMaxDuration,
	}
}

// Check reports whether the constraints themselves are usable.
func (c Constraints) Check() error {
	if c.Window.End <= c.Window.Start {
		return fmt.Errorf("%w: window %s is empty", ErrInvalidSchedule, c.Window)
	}
	if c.MinDuration <= 0 {
		return fmt.Errorf("%w: minimum duration must be positive, got %d", ErrInvalidSchedule, c.MinDuration)
	}
	if c.MaxDuration < c.MinDuration {
		return fmt.Errorf("%w: maximum duration %d is below minimum %d", ErrInvalidSchedule, c.MaxDuration, c.MinDuration)
	}
	return nil
}

// Validate checks a proposed assignment against the duration bounds, the
// operating window, and the given occupied slots. Checks run in that order
// and the first failure is returned. Validate knows nothing about schedules:
// callers decide which slots count as occupied.
func Validate(start timeslot.TimeOfDay, durationMinutes int, occupied []timeslot.Slot, c Constraints) error {
	if durationMinutes < c.MinDuration {
		return fmt.Errorf("%w: duration too short (%d < %d minutes)",
			ErrDurationOutOfRange, durationMinutes, c.MinDuration)
	}
	if durationMinutes > c.MaxDuration {
		return fmt.Errorf("%w: duration too long (%d > %d minutes)",
			ErrDurationOutOfRange, durationMinutes, c.MaxDuration)
	}
	if start < c.Window.Start {
		return fmt.Errorf("%w: starts before window (%s < %s)",
			ErrOutsideOperatingWindow, start, c.Window.Start)
	}

	candidate := timeslot.SlotFor(start, durationMinutes)
	if candidate.End > c.Window.End {
		return fmt.Errorf("%w: ends after window (%s > %s)",
			ErrOutsideOperatingWindow, candidate.End, c.Window.End)
	}

	for _, o := range occupied {
		if timeslot.Overlaps(candidate, o) {
			return fmt.Errorf("%w: %s conflicts with %s",
				ErrOverlapsExistingAssignment, candidate, o)
		}
	}
	return nil
}
