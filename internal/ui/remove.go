package ui

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [route] [cell]",
		Short: "Remove a visit from a route",
		Long: `Remove a scheduled visit. Later visits keep their times, so the
freed time stays open for another cell.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := a.loadRoute(ctx, args[0])
			if err != nil {
				return err
			}

			cellID := strings.TrimSpace(args[1])
			next, err := s.Remove(cellID)
			if err != nil {
				return err
			}

			if err := a.saveRoute(ctx, next, "remove"); err != nil {
				return err
			}

			a.printf("Removed %s from %s\n", cellID, s.Route())
			return nil
		},
	}
}
