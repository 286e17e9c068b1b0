package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/schedule"
	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// ErrUnknownCell is returned when a route has imported candidates and the
// cell is not one of them.
var ErrUnknownCell = errors.New("cell is not a candidate of this route")

func (a *App) addCmd() *cobra.Command {
	var (
		start    string
		duration int
		seq      int
	)

	cmd := &cobra.Command{
		Use:   "add [route] [cell]",
		Short: "Schedule a cell visit",
		Long: `Schedule a visit to a cell on a route.

Without --start the visit is placed right after the last one (or at the
window start on an empty route). The visit must fit inside the operating
window and must not overlap any other visit.

Example:
  hexroute add north 8a2a1072b59ffff --start=16:30 --duration=20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := a.loadRoute(ctx, args[0])
			if err != nil {
				return err
			}

			cellID := strings.TrimSpace(args[1])
			ordinals, err := a.candidateOrdinals(ctx, s.Route())
			if err != nil {
				return err
			}
			if len(ordinals) > 0 {
				if _, ok := ordinals[cellID]; !ok {
					return fmt.Errorf("%w: %q", ErrUnknownCell, cellID)
				}
			}

			at := schedule.SuggestNextStart(s)
			if start != "" {
				if at, err = timeslot.ParseTimeOfDay(start); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("duration") {
				duration = a.config.Duration.DefaultMinutes
			}

			next, err := s.AddAssignment(schedule.Request{
				CellID:          cellID,
				Sequence:        seq,
				Start:           at,
				DurationMinutes: duration,
			})
			if err != nil {
				a.log.Warn().Err(err).Str("route", s.Route()).Str("cell", cellID).Msg("add rejected")
				return err
			}

			if err := a.saveRoute(ctx, next, "add"); err != nil {
				return err
			}

			added, _ := next.Lookup(cellID)
			a.printf("Added %s #%d %s (%s)\n",
				formatAssigned(added.CellID),
				added.Sequence,
				added.Slot,
				FormatDuration(added.DurationMinutes),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, default: next free start)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Visit length in minutes (default from config)")
	cmd.Flags().IntVar(&seq, "seq", 0, "Selection order (default: after the highest)")

	return cmd
}

// candidateOrdinals returns the ordinal of every imported candidate cell.
func (a *App) candidateOrdinals(ctx context.Context, route string) (map[string]int, error) {
	cs, err := a.repo.ListCells(ctx, route)
	if err != nil {
		return nil, fmt.Errorf("listing cells: %w", err)
	}
	ordinals := make(map[string]int, len(cs))
	for _, c := range cs {
		ordinals[c.ID] = c.Ordinal
	}
	return ordinals, nil
}
