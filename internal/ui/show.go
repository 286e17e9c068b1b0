package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) showCmd() *cobra.Command {
	var (
		noBoard bool
		noColor bool
		bySeq   bool
	)

	cmd := &cobra.Command{
		Use:   "show [route]",
		Short: "Show a route's visits in time order",
		Long: `Display the visits of a route in chronological order, or in selection
order with --by-seq, followed by a board of the canonical slots of the
operating window and usage stats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			ctx := context.Background()
			s, err := a.loadRoute(ctx, args[0])
			if err != nil {
				return err
			}

			a.printf("=== %s ===\n", formatHeader(fmt.Sprintf("%s  %s", s.Route(), s.Constraints().Window)))
			a.printf("%s\n\n", formatMuted("group "+s.GroupID().String()))

			if s.Len() == 0 {
				a.println("No visits scheduled.")
			} else {
				ordinals, err := a.candidateOrdinals(ctx, s.Route())
				if err != nil {
					return err
				}
				PrintSchedule(a.out, s, PrintOpts{Ordinals: ordinals, BySequence: bySeq})
			}

			if !noBoard {
				board, err := CapacityBoard(s, a.config.Window.StepMinutes)
				if err != nil {
					return fmt.Errorf("rendering board: %w", err)
				}
				a.printf("\n%s\n", board)
			}

			a.println()
			PrintStats(a.out, s.Stats())
			return nil
		},
	}

	cmd.Flags().BoolVar(&bySeq, "by-seq", false, "List visits in selection order")
	cmd.Flags().BoolVar(&noBoard, "no-board", false, "Hide the slot board")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
