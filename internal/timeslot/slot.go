package timeslot

import "fmt"

// Slot is a half-open time interval [Start, End) with Start < End.
type Slot struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewSlot creates a Slot, rejecting empty or inverted intervals.
func NewSlot(start, end TimeOfDay) (Slot, error) {
	if end <= start {
		return Slot{}, fmt.Errorf("%w: %s-%s", ErrEndBeforeStart, start, end)
	}
	return Slot{Start: start, End: end}, nil
}

// SlotFor creates a Slot starting at start and lasting the given minutes.
// The caller is responsible for passing a positive duration.
func SlotFor(start TimeOfDay, minutes int) Slot {
	return Slot{Start: start, End: start.Add(minutes)}
}

// Duration returns the slot length in minutes.
func (s Slot) Duration() int {
	return int(s.End - s.Start)
}

// String formats the slot as "HH:MM-HH:MM".
func (s Slot) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Overlaps reports whether two slots share any minute.
// Touching endpoints (a.End == b.Start) are not an overlap.
func Overlaps(a, b Slot) bool {
	return a.Start < b.End && b.Start < a.End
}

// OverlapMinutes returns the number of minutes two slots share.
func OverlapMinutes(a, b Slot) int {
	start := max(a.Start, b.Start)
	end := min(a.End, b.End)
	if end <= start {
		return 0
	}
	return int(end - start)
}
