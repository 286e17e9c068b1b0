package timeslot

import "fmt"

// DefaultStep is the canonical slot width in minutes.
const DefaultStep = 15

// Window is the operating window of a day. All assignments must fall inside it.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// DefaultWindow returns the 16:30-20:00 operating window.
func DefaultWindow() Window {
	return Window{Start: 16*60 + 30, End: 20 * 60}
}

// NewWindow parses "HH:MM" bounds into a Window.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	if e <= s {
		return Window{}, fmt.Errorf("window: %w", ErrEndBeforeStart)
	}
	return Window{Start: s, End: e}, nil
}

// Minutes returns the window length in minutes.
func (w Window) Minutes() int {
	return int(w.End - w.Start)
}

// Contains reports whether the slot lies entirely within the window.
func (w Window) Contains(s Slot) bool {
	return s.Start >= w.Start && s.End <= w.End
}

// String formats the window as "HH:MM-HH:MM".
func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// GenerateCanonical returns back-to-back slots of exactly stepMinutes
// covering [w.Start, w.End). A trailing remainder shorter than one step is dropped.
func GenerateCanonical(w Window, stepMinutes int) ([]Slot, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidStep, stepMinutes)
	}
	if w.End <= w.Start {
		return nil, fmt.Errorf("window %s: %w", w, ErrEndBeforeStart)
	}

	slots := make([]Slot, 0, w.Minutes()/stepMinutes)
	for start := w.Start; start.Add(stepMinutes) <= w.End; start = start.Add(stepMinutes) {
		slots = append(slots, SlotFor(start, stepMinutes))
	}
	return slots, nil
}

// SlotState pairs a canonical slot with whether any occupied interval touches it.
type SlotState struct {
	Slot   Slot
	Filled bool
	// FilledMinutes is how much of the slot is covered.
	FilledMinutes int
}

// Occupancy marks each canonical slot as filled if any occupied slot overlaps it.
func Occupancy(canonical, occupied []Slot) []SlotState {
	states := make([]SlotState, len(canonical))
	for i, c := range canonical {
		states[i].Slot = c
		for _, o := range occupied {
			if m := OverlapMinutes(c, o); m > 0 {
				states[i].Filled = true
				states[i].FilledMinutes += m
			}
		}
	}
	return states
}
