package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/cells"
)

func (a *App) cellsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cells",
		Short: "Manage the candidate cells of a route",
	}
	cmd.AddCommand(a.cellsImportCmd())
	cmd.AddCommand(a.cellsListCmd())
	return cmd
}

func (a *App) cellsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [route] [file]",
		Short: "Import candidate cells from a file",
		Long: `Import the candidate cells of a route, replacing any earlier import.

The file is either YAML with a "cells" list (.yaml, .yml) or plain text
with one cell id per line. Blank lines and lines starting with # are
ignored. Once a route has candidates, only those cells can be added.

Example:
  hexroute cells import north ./north-cells.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			route := args[0]

			s, err := a.loadRoute(ctx, route)
			if err != nil {
				return err
			}

			cs, err := cells.FileSource{Path: args[1]}.Cells(ctx)
			if err != nil {
				return fmt.Errorf("reading cells: %w", err)
			}

			if err := a.repo.SaveCells(ctx, s.Route(), cs); err != nil {
				return fmt.Errorf("saving cells: %w", err)
			}
			a.log.Info().Str("route", route).Str("file", args[1]).Int("cells", len(cs)).Msg("cells imported")

			a.printf("Imported %d cells into %s\n", len(cs), formatHeader(route))

			var unknown []string
			index := cells.Index(cs)
			for _, asg := range s.Assignments() {
				if _, ok := index[asg.CellID]; !ok {
					unknown = append(unknown, asg.CellID)
				}
			}
			if len(unknown) > 0 {
				a.printf("%s %v\n", formatWarn("Scheduled cells not in the import:"), unknown)
			}
			return nil
		},
	}
}

func (a *App) cellsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [route]",
		Short: "List candidate cells and whether each is scheduled",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := a.loadRoute(ctx, args[0])
			if err != nil {
				return err
			}

			cs, err := a.repo.ListCells(ctx, s.Route())
			if err != nil {
				return fmt.Errorf("listing cells: %w", err)
			}

			if len(cs) == 0 {
				a.printf("No candidate cells for %s. Import some with 'hexroute cells import'.\n", s.Route())
				return nil
			}

			scheduled := 0
			for _, c := range cs {
				if asg, ok := s.Lookup(c.ID); ok {
					scheduled++
					a.printf("  %4d  %s  %s\n", c.Ordinal, formatAssigned(c.ID), asg.Slot)
				} else {
					a.printf("  %4d  %s\n", c.Ordinal, formatMuted(c.ID))
				}
			}
			a.printf("\n%d of %d cells scheduled\n", scheduled, len(cs))
			return nil
		},
	}
}
