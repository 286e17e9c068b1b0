package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/schedule"
)

func (a *App) routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Create, list and delete routes",
	}
	cmd.AddCommand(a.routeNewCmd())
	cmd.AddCommand(a.routeListCmd())
	cmd.AddCommand(a.routeDeleteCmd())
	return cmd
}

func (a *App) routeNewCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "new [route]",
		Short: "Create an empty route",
		Long: `Create an empty route using the configured operating window and
duration bounds. Each group may be scheduled by one route only.

Example:
  hexroute route new north --group 6f1c2a4e-2b8e-4d1f-9a43-3f0f5d2b9c11`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id := uuid.New()
			if group != "" {
				parsed, err := uuid.Parse(group)
				if err != nil {
					return fmt.Errorf("invalid group id: %w", err)
				}
				id = parsed
			}

			ctx := context.Background()
			_, err := a.repo.LoadSchedule(ctx, args[0])
			switch {
			case err == nil:
				return fmt.Errorf("route %q already exists", args[0])
			case !errors.Is(err, schedule.ErrRouteNotFound):
				return fmt.Errorf("checking route: %w", err)
			}

			s := schedule.New(args[0], id, a.config.Constraints())
			if err := a.saveRoute(ctx, s, "create"); err != nil {
				return err
			}

			a.printf("Created route %s (group %s) window %s\n",
				formatHeader(s.Route()), s.GroupID(), s.Constraints().Window)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Group id (UUID, default: random)")
	return cmd
}

func (a *App) routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored routes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			routes, err := a.repo.ListRoutes(context.Background())
			if err != nil {
				return fmt.Errorf("listing routes: %w", err)
			}

			if len(routes) == 0 {
				a.println("No routes yet. Create one with 'hexroute route new'.")
				return nil
			}

			width := 0
			for _, r := range routes {
				width = max(width, len(r.Name))
			}
			for _, r := range routes {
				a.printf("  %s  %s  %s  %s\n",
					padRight(formatAssigned(r.Name), width),
					fmt.Sprintf("%3d visits", r.Assignments),
					formatMuted(r.GroupID.String()),
					formatMuted(r.UpdatedAt.Local().Format("2006-01-02 15:04")),
				)
			}
			return nil
		},
	}
}

func (a *App) routeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [route]",
		Short: "Delete a route with its visits and candidate cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			if err := a.repo.DeleteSchedule(context.Background(), args[0]); err != nil {
				return fmt.Errorf("deleting route: %w", err)
			}
			a.log.Info().Str("route", args[0]).Msg("route deleted")

			a.printf("Deleted route %s\n", args[0])
			return nil
		},
	}
}
