// Package schedule implements the route schedule aggregate: the constraint
// validator, the ordered cell-to-slot assignments of one route, the cascade
// reflow applied on edit, and next-start suggestions.
//
// A Schedule is an immutable value. Every mutation returns a new Schedule
// or an error, leaving the receiver untouched.
package schedule

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// Assignment places one cell into a time slot of a route.
type Assignment struct {
	CellID          string
	Sequence        int // selection order, not chronological order
	Slot            timeslot.Slot
	DurationMinutes int
	GroupID         uuid.UUID
}

// Start returns the assignment start time.
func (a Assignment) Start() timeslot.TimeOfDay {
	return a.Slot.Start
}

// End returns the assignment end time.
func (a Assignment) End() timeslot.TimeOfDay {
	return a.Slot.End
}

// Request describes a new assignment.
type Request struct {
	CellID          string
	Sequence        int // 0 assigns the next selection rank
	Start           timeslot.TimeOfDay
	DurationMinutes int
}

// Schedule holds the assignments of a single route, keyed by cell id.
// Chronological order is derived on read.
type Schedule struct {
	route       string
	group       uuid.UUID
	constraints Constraints
	assignments map[string]Assignment
}

// New creates an empty schedule for a route.
func New(route string, group uuid.UUID, c Constraints) *Schedule {
	return &Schedule{
		route:       route,
		group:       group,
		constraints: c,
		assignments: make(map[string]Assignment),
	}
}

// Restore rebuilds a schedule from stored assignments, checking every
// invariant. It is used by persistence collaborators on load.
func Restore(route string, group uuid.UUID, c Constraints, assignments []Assignment) (*Schedule, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}

	s := New(route, group, c)
	for _, a := range assignments {
		a.CellID = normalizeCellID(a.CellID)
		if a.CellID == "" {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, ErrEmptyCellID)
		}
		if _, ok := s.assignments[a.CellID]; ok {
			return nil, fmt.Errorf("%w: cell %q: %w", ErrInvalidSchedule, a.CellID, ErrAssignmentExists)
		}
		if a.DurationMinutes != a.Slot.Duration() {
			return nil, fmt.Errorf("%w: cell %q: duration %d does not match slot %s",
				ErrInvalidSchedule, a.CellID, a.DurationMinutes, a.Slot)
		}
		if err := Validate(a.Slot.Start, a.DurationMinutes, s.OccupiedSlots(""), c); err != nil {
			return nil, fmt.Errorf("%w: cell %q: %w", ErrInvalidSchedule, a.CellID, err)
		}
		a.GroupID = group
		s.assignments[a.CellID] = a
	}
	return s, nil
}

// clone returns a working copy sharing nothing mutable with s.
func (s *Schedule) clone() *Schedule {
	return &Schedule{
		route:       s.route,
		group:       s.group,
		constraints: s.constraints,
		assignments: maps.Clone(s.assignments),
	}
}

// Route returns the route name.
func (s *Schedule) Route() string {
	return s.route
}

// GroupID returns the group the route belongs to.
func (s *Schedule) GroupID() uuid.UUID {
	return s.group
}

// Constraints returns the bounds every assignment must satisfy.
func (s *Schedule) Constraints() Constraints {
	return s.constraints
}

// Len returns the number of assignments.
func (s *Schedule) Len() int {
	return len(s.assignments)
}

// Lookup returns the assignment for a cell.
func (s *Schedule) Lookup(cellID string) (Assignment, bool) {
	a, ok := s.assignments[normalizeCellID(cellID)]
	return a, ok
}

// Chronological yields assignments ordered by slot start. Each range over
// the returned sequence sorts the current assignments afresh.
func (s *Schedule) Chronological() iter.Seq[Assignment] {
	return func(yield func(Assignment) bool) {
		for _, a := range s.sorted() {
			if !yield(a) {
				return
			}
		}
	}
}

// Assignments returns the assignments in chronological order.
func (s *Schedule) Assignments() []Assignment {
	return s.sorted()
}

// BySequence returns the assignments in selection order.
func (s *Schedule) BySequence() []Assignment {
	result := slices.Collect(maps.Values(s.assignments))
	slices.SortFunc(result, func(a, b Assignment) int {
		if a.Sequence != b.Sequence {
			return a.Sequence - b.Sequence
		}
		return int(a.Slot.Start - b.Slot.Start)
	})
	return result
}

// OccupiedSlots returns the slots of every assignment except the excluded
// cell. An empty excluding id excludes nothing.
func (s *Schedule) OccupiedSlots(excluding string) []timeslot.Slot {
	slots := make([]timeslot.Slot, 0, len(s.assignments))
	for _, a := range s.sorted() {
		if excluding != "" && a.CellID == excluding {
			continue
		}
		slots = append(slots, a.Slot)
	}
	return slots
}

// AddAssignment validates the request against every current slot and
// returns a schedule containing the new assignment.
func (s *Schedule) AddAssignment(req Request) (*Schedule, error) {
	cellID := normalizeCellID(req.CellID)
	if cellID == "" {
		return nil, ErrEmptyCellID
	}
	if _, ok := s.assignments[cellID]; ok {
		return nil, fmt.Errorf("%w: %q", ErrAssignmentExists, cellID)
	}

	if err := Validate(req.Start, req.DurationMinutes, s.OccupiedSlots(""), s.constraints); err != nil {
		return nil, fmt.Errorf("adding cell %q: %w", cellID, err)
	}

	seq := req.Sequence
	if seq <= 0 {
		seq = s.nextSequence()
	}

	next := s.clone()
	next.assignments[cellID] = Assignment{
		CellID:          cellID,
		Sequence:        seq,
		Slot:            timeslot.SlotFor(req.Start, req.DurationMinutes),
		DurationMinutes: req.DurationMinutes,
		GroupID:         s.group,
	}
	return next, nil
}

// Remove returns a schedule without the cell's assignment. Later
// assignments keep their times; the freed time stays as a gap.
func (s *Schedule) Remove(cellID string) (*Schedule, error) {
	cellID = normalizeCellID(cellID)
	if _, ok := s.assignments[cellID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrAssignmentNotFound, cellID)
	}
	next := s.clone()
	delete(next.assignments, cellID)
	return next, nil
}

// normalizeCellID is the key form of a cell id used by every entrypoint.
func normalizeCellID(id string) string {
	return strings.TrimSpace(id)
}

func (s *Schedule) nextSequence() int {
	highest := 0
	for _, a := range s.assignments {
		highest = max(highest, a.Sequence)
	}
	return highest + 1
}

// sorted returns the assignments ordered by start time. Overlap freedom
// rules out equal starts; the cell id tiebreak only keeps the order total
// for corrupt input.
func (s *Schedule) sorted() []Assignment {
	result := slices.Collect(maps.Values(s.assignments))
	slices.SortFunc(result, func(a, b Assignment) int {
		if a.Slot.Start != b.Slot.Start {
			return int(a.Slot.Start - b.Slot.Start)
		}
		return strings.Compare(a.CellID, b.CellID)
	})
	return result
}

// firstOverlap returns the first pair of chronologically adjacent
// assignments that overlap. Adjacent pairs suffice once sorted by start.
func (s *Schedule) firstOverlap() (Assignment, Assignment, bool) {
	order := s.sorted()
	for i := 1; i < len(order); i++ {
		if timeslot.Overlaps(order[i-1].Slot, order[i].Slot) {
			return order[i-1], order[i], true
		}
	}
	return Assignment{}, Assignment{}, false
}
