package ui

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/schedule"
	"github.com/javiermolinar/hexroute/internal/timeslot"
)

func (a *App) suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [route]",
		Short: "Print where the next visit should start",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.loadRoute(context.Background(), args[0])
			if err != nil {
				return err
			}

			next := schedule.SuggestNextStart(s)
			window := s.Constraints().Window
			remaining := int(window.End - next)

			if remaining < s.Constraints().MinDuration {
				a.printf("%s %s (window ends %s)\n", formatWarn("Route is full at"), next, window.End)
				return nil
			}

			a.printf("Next start: %s  %s\n", formatAssigned(next.String()),
				formatMuted(FormatDuration(remaining)+" left"))
			return nil
		},
	}
}

func (a *App) slotsCmd() *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the canonical slots of the operating window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("step") {
				step = a.config.Window.StepMinutes
			}

			window := a.config.OperatingWindow()
			slots, err := timeslot.GenerateCanonical(window, step)
			if err != nil {
				return err
			}

			a.printf("%s  %d-minute slots\n", formatHeader(window.String()), step)
			for i, sl := range slots {
				a.printf("  %2d  %s\n", i+1, sl)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "Slot width in minutes (default from config)")
	return cmd
}
