package schedule

import "github.com/javiermolinar/hexroute/internal/timeslot"

// SuggestNextStart returns where a new assignment should start so that it
// packs against the existing ones: the window start for an empty schedule,
// otherwise the end of the chronologically last assignment.
func SuggestNextStart(s *Schedule) timeslot.TimeOfDay {
	next := s.constraints.Window.Start
	for _, a := range s.assignments {
		next = max(next, a.Slot.End)
	}
	return next
}

// Stats summarizes how a schedule uses its window.
type Stats struct {
	Assignments      int
	ScheduledMinutes int
	IdleMinutes      int // gaps between consecutive assignments
	RemainingMinutes int // from the suggested next start to the window end
	WindowMinutes    int
}

// UtilizationPercent returns scheduled minutes as a share of the window.
func (st Stats) UtilizationPercent() int {
	if st.WindowMinutes == 0 {
		return 0
	}
	return (st.ScheduledMinutes * 100) / st.WindowMinutes
}

// Stats calculates usage statistics for the schedule.
func (s *Schedule) Stats() Stats {
	st := Stats{WindowMinutes: s.constraints.Window.Minutes()}

	var prev *Assignment
	for a := range s.Chronological() {
		st.Assignments++
		st.ScheduledMinutes += a.DurationMinutes
		if prev != nil {
			st.IdleMinutes += int(a.Slot.Start - prev.Slot.End)
		}
		prev = &a
	}

	st.RemainingMinutes = max(0, int(s.constraints.Window.End-SuggestNextStart(s)))
	return st
}
