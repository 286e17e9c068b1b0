package schedule

import (
	"fmt"
	"slices"

	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// Shift records how one assignment moves during an edit.
type Shift struct {
	CellID string
	Before timeslot.Slot
	After  timeslot.Slot
}

// Moved reports whether the slot changed.
func (s Shift) Moved() bool {
	return s.Before != s.After
}

// Reflow is a fully validated edit that has not been committed.
type Reflow struct {
	Target  Shift
	Shifted []Shift // chronologically later assignments, in order

	result *Schedule
}

// Schedule returns the schedule the edit produces.
func (r Reflow) Schedule() *Schedule {
	return r.result
}

// Plan computes the edit of an existing assignment on a working copy.
//
// The new (start, duration) is checked only against assignments that are
// chronologically earlier than the target. Every later assignment is then
// packed against its predecessor, keeping its own duration, so the tail of
// the route stays contiguous. The edit is rejected as a whole when the last
// assignment would end after the window.
func (s *Schedule) Plan(cellID string, newStart timeslot.TimeOfDay, newDuration int) (Reflow, error) {
	cellID = normalizeCellID(cellID)
	order := s.sorted()
	idx := slices.IndexFunc(order, func(a Assignment) bool { return a.CellID == cellID })
	if idx < 0 {
		return Reflow{}, fmt.Errorf("%w: %q", ErrAssignmentNotFound, cellID)
	}

	earlier := make([]timeslot.Slot, 0, idx)
	for _, a := range order[:idx] {
		earlier = append(earlier, a.Slot)
	}
	if err := Validate(newStart, newDuration, earlier, s.constraints); err != nil {
		return Reflow{}, fmt.Errorf("editing cell %q: %w", cellID, err)
	}

	working := s.clone()

	target := order[idx]
	edited := target
	edited.Slot = timeslot.SlotFor(newStart, newDuration)
	edited.DurationMinutes = newDuration
	working.assignments[cellID] = edited

	reflow := Reflow{
		Target:  Shift{CellID: cellID, Before: target.Slot, After: edited.Slot},
		Shifted: make([]Shift, 0, len(order)-idx-1),
	}

	prevEnd := edited.Slot.End
	for _, a := range order[idx+1:] {
		moved := a
		moved.Slot = timeslot.SlotFor(prevEnd, a.DurationMinutes)
		working.assignments[a.CellID] = moved
		reflow.Shifted = append(reflow.Shifted, Shift{CellID: a.CellID, Before: a.Slot, After: moved.Slot})
		prevEnd = moved.Slot.End
	}

	if prevEnd > s.constraints.Window.End {
		return Reflow{}, fmt.Errorf("%w: editing cell %q pushes the last assignment to %s (window ends %s)",
			ErrCascadeWouldExceedWindow, cellID, prevEnd, s.constraints.Window.End)
	}

	// A target moved ahead of an earlier assignment drags its successors
	// along; they may then land on the assignments it skipped over.
	if a, b, ok := working.firstOverlap(); ok {
		return Reflow{}, fmt.Errorf("%w: editing cell %q makes %q (%s) collide with %q (%s)",
			ErrOverlapsExistingAssignment, cellID, a.CellID, a.Slot, b.CellID, b.Slot)
	}

	reflow.result = working
	return reflow, nil
}

// EditAssignment applies Plan and returns the resulting schedule.
func (s *Schedule) EditAssignment(cellID string, newStart timeslot.TimeOfDay, newDuration int) (*Schedule, error) {
	r, err := s.Plan(cellID, newStart, newDuration)
	if err != nil {
		return nil, err
	}
	return r.Schedule(), nil
}

// Apply edits the cell's assignment when it exists and adds a new one
// otherwise. Prefer AddAssignment or EditAssignment when the caller knows
// which one it means.
func (s *Schedule) Apply(cellID string, start timeslot.TimeOfDay, durationMinutes int) (*Schedule, error) {
	cellID = normalizeCellID(cellID)
	if _, ok := s.assignments[cellID]; !ok {
		return s.AddAssignment(Request{CellID: cellID, Start: start, DurationMinutes: durationMinutes})
	}
	return s.EditAssignment(cellID, start, durationMinutes)
}
