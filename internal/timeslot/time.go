// Package timeslot provides time-of-day arithmetic and the slot value types
// used by the scheduling core.
package timeslot

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrInvalidStep       = errors.New("step must be a positive number of minutes")
)

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time quantized to minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM". 24:00 is accepted so a window can close at midnight.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if mins > 59 || hours > 24 || (hours == 24 && mins != 0) {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, s)
	}
	return TimeOfDay(hours*60 + mins), nil
}

// MustParse is like ParseTimeOfDay but panics on invalid input.
// Intended for constants and tests.
func MustParse(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ToMinutes returns minutes since midnight.
func ToMinutes(t TimeOfDay) int {
	return int(t)
}

// FromMinutes converts minutes since midnight to a TimeOfDay.
func FromMinutes(m int) TimeOfDay {
	return TimeOfDay(m)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Add returns t shifted by the given number of minutes.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// String formats t as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	m := int(t)
	if m < 0 {
		return fmt.Sprintf("-%s", TimeOfDay(-m))
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
