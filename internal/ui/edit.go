package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/schedule"
	"github.com/javiermolinar/hexroute/internal/timeslot"
)

func (a *App) editCmd() *cobra.Command {
	var (
		start    string
		duration int
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "edit [route] [cell]",
		Short: "Change a visit and push later visits forward",
		Long: `Change the start or length of a scheduled visit.

Every visit after the edited one is moved so it starts exactly when the
previous one ends, keeping its own length. The edit is refused as a whole
if the last visit would then end after the operating window.

Example:
  hexroute edit north 8a2a1072b59ffff --duration=30
  hexroute edit north 8a2a1072b59ffff --start=17:00 --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := a.loadRoute(ctx, args[0])
			if err != nil {
				return err
			}

			cellID := strings.TrimSpace(args[1])
			current, ok := s.Lookup(cellID)
			if !ok {
				return fmt.Errorf("%w: %q", schedule.ErrAssignmentNotFound, cellID)
			}

			at := current.Start()
			if start != "" {
				if at, err = timeslot.ParseTimeOfDay(start); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("duration") {
				duration = current.DurationMinutes
			}

			reflow, err := s.Plan(current.CellID, at, duration)
			if err != nil {
				a.log.Warn().Err(err).Str("route", s.Route()).Str("cell", current.CellID).Msg("edit rejected")
				return err
			}

			a.printReflow(reflow)

			if dryRun {
				a.println(formatMuted("Dry run: nothing saved."))
				return nil
			}
			return a.saveRoute(ctx, reflow.Schedule(), "edit")
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM, default: unchanged)")
	cmd.Flags().IntVar(&duration, "duration", 0, "New length in minutes (default: unchanged)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the reflow without saving it")

	return cmd
}

// printReflow lists the edited visit and every visit the edit moved, then
// the resulting route with the moved visits highlighted.
func (a *App) printReflow(r schedule.Reflow) {
	a.printf("%s %s -> %s\n", formatAssigned(r.Target.CellID), r.Target.Before, r.Target.After)

	moved := make(map[string]bool, len(r.Shifted))
	for _, sh := range r.Shifted {
		if !sh.Moved() {
			continue
		}
		moved[sh.CellID] = true
		a.printf("  %s %s -> %s\n", formatShifted(sh.CellID), formatMuted(sh.Before.String()), sh.After)
	}

	if len(moved) == 0 {
		a.println(formatMuted("No other visits moved."))
		return
	}
	a.printf("%d later visit(s) moved\n\n", len(moved))
	PrintSchedule(a.out, r.Schedule(), PrintOpts{Highlight: moved})
}
