package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/hexroute/internal/schedule"
	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// PrintOpts configures assignment printing behavior.
type PrintOpts struct {
	Ordinals   map[string]int  // candidate ordinal per cell, empty if none were imported
	Highlight  map[string]bool // cells drawn in the shifted color
	BySequence bool            // selection order instead of time order
}

// maxCellWidth calculates the widest cell id column the terminal allows.
func maxCellWidth(defaultWidth int) int {
	// "  #NN  HH:MM-HH:MM  " plus "  1h30m  [NNN]"
	available := termWidth() - 36
	return max(defaultWidth, available)
}

// PrintAssignmentRow prints a single assignment row.
func PrintAssignmentRow(w io.Writer, a schedule.Assignment, opts PrintOpts, cellWidth int) {
	cell := truncate(a.CellID, cellWidth)
	if opts.Highlight[a.CellID] {
		cell = formatShifted(cell)
	} else {
		cell = formatAssigned(cell)
	}

	ordinal := ""
	if n, ok := opts.Ordinals[a.CellID]; ok {
		ordinal = formatMuted(fmt.Sprintf("[%d]", n))
	}

	_, _ = fmt.Fprintf(w, "  #%-3d %s  %s  %s %s\n",
		a.Sequence,
		a.Slot,
		padRight(cell, cellWidth),
		padRight(formatMuted(FormatDuration(a.DurationMinutes)), 6),
		ordinal,
	)
}

// PrintSchedule prints every assignment in chronological order, or in
// selection order when opts.BySequence is set.
func PrintSchedule(w io.Writer, s *schedule.Schedule, opts PrintOpts) {
	rows := s.Assignments()
	if opts.BySequence {
		rows = s.BySequence()
	}

	width := 0
	for _, a := range rows {
		width = max(width, ansi.StringWidth(a.CellID))
	}
	width = min(width, maxCellWidth(24))

	for _, a := range rows {
		PrintAssignmentRow(w, a, opts, width)
	}
}

// PrintStats prints the usage summary of a schedule.
func PrintStats(w io.Writer, st schedule.Stats) {
	_, _ = fmt.Fprintf(w, "Visits: %s  Scheduled: %s  Idle: %s  Remaining: %s\n",
		formatStats(fmt.Sprintf("%d", st.Assignments)),
		formatStats(FormatDuration(st.ScheduledMinutes)),
		FormatDuration(st.IdleMinutes),
		FormatDuration(st.RemainingMinutes),
	)
	_, _ = fmt.Fprintf(w, "Usage: %s\n", UtilizationBar(st.ScheduledMinutes, st.WindowMinutes, 20))
}

// UtilizationBar returns a visual bar of scheduled time against the window.
func UtilizationBar(scheduledMinutes, windowMinutes, width int) string {
	if windowMinutes == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% used)"
	}

	pct := (scheduledMinutes * 100) / windowMinutes
	filled := min(width, (scheduledMinutes*width)/windowMinutes)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatAssigned(bar), formatStats(fmt.Sprintf("(%d%% used)", pct)))
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	boardTitleStyle = lipgloss.NewStyle().Bold(true)
	boardFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	boardPartStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	boardFreeStyle  = lipgloss.NewStyle().Faint(true)
)

// boardBarWidth is the number of cells used for one canonical slot's fill bar.
const boardBarWidth = 10

// CapacityBoard renders the canonical slots of the schedule's window with
// how much of each is taken and by which cells.
func CapacityBoard(s *schedule.Schedule, step int) (string, error) {
	canonical, err := timeslot.GenerateCanonical(s.Constraints().Window, step)
	if err != nil {
		return "", err
	}

	assignments := s.Assignments()
	occupied := make([]timeslot.Slot, len(assignments))
	for i, a := range assignments {
		occupied[i] = a.Slot
	}

	lines := make([]string, 0, len(canonical)+1)
	lines = append(lines, boardTitleStyle.Render(fmt.Sprintf("%s  %s", s.Route(), s.Constraints().Window)))
	for _, st := range timeslot.Occupancy(canonical, occupied) {
		lines = append(lines, boardLine(st, assignments))
	}
	return boardStyle.Render(strings.Join(lines, "\n")), nil
}

func boardLine(st timeslot.SlotState, assignments []schedule.Assignment) string {
	filled := (st.FilledMinutes * boardBarWidth) / st.Slot.Duration()
	bar := strings.Repeat("█", filled) + strings.Repeat("░", boardBarWidth-filled)

	var ids []string
	for _, a := range assignments {
		if timeslot.Overlaps(a.Slot, st.Slot) {
			ids = append(ids, a.CellID)
		}
	}

	switch {
	case !st.Filled:
		bar = boardFreeStyle.Render(bar)
	case st.FilledMinutes >= st.Slot.Duration():
		bar = boardFullStyle.Render(bar)
	default:
		bar = boardPartStyle.Render(bar)
	}
	return fmt.Sprintf("%s %s %s", st.Slot.Start, bar, strings.Join(ids, ","))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// padRight pads s with spaces to width display columns, ignoring escape codes.
func padRight(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// truncate shortens s to width display columns with a trailing ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, "...")
}
