package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/hexroute/internal/cells"
	"github.com/javiermolinar/hexroute/internal/config"
	"github.com/javiermolinar/hexroute/internal/db"
	"github.com/javiermolinar/hexroute/internal/schedule"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Store is the persistence the CLI needs: schedules plus candidate cells.
type Store interface {
	schedule.Repository
	SaveCells(ctx context.Context, route string, cs []cells.Cell) error
	ListCells(ctx context.Context, route string) ([]cells.Cell, error)
}

// App holds the CLI application state.
type App struct {
	repo   Store
	config *config.Config
	root   *cobra.Command
	out    io.Writer
	debug  bool // Enable debug logging
	log    zerolog.Logger
	logOut io.Closer
}

// NewApp creates a new CLI application with the given store and config.
// A nil store is opened lazily from the configured database path.
func NewApp(repo Store, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, out: os.Stdout, log: zerolog.Nop()}

	a.root = &cobra.Command{
		Use:   "hexroute",
		Short: "Schedule hexagon cell visits inside an operating window",
		Long: `hexroute assigns hexagon cells to non-overlapping visit windows
inside one operating day and reflows later visits when one is edited.

Create a route, optionally import its candidate cells, then add cells
one after another. Editing a visit pushes every later visit forward.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.config.UI.Color {
				DisableColor()
			}
			if err := a.startDebugLog(); err != nil {
				return err
			}
			a.log.Debug().Str("command", cmd.CommandPath()).Strs("args", args).Msg("run")
			return nil
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.routeCmd())
	a.root.AddCommand(a.cellsCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.suggestCmd())
	a.root.AddCommand(a.slotsCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			a.printf("hexroute %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store and the debug log.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	a.stopDebugLog()
	return err
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	a.log.Debug().Str("db_path", path).Msg("database opened")
	return nil
}

// loadRoute opens the store and loads a route's schedule.
func (a *App) loadRoute(ctx context.Context, route string) (*schedule.Schedule, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	s, err := a.repo.LoadSchedule(ctx, route)
	if err != nil {
		return nil, fmt.Errorf("loading route: %w", err)
	}
	return s, nil
}

// saveRoute persists a schedule and logs the outcome.
func (a *App) saveRoute(ctx context.Context, s *schedule.Schedule, action string) error {
	if err := a.repo.SaveSchedule(ctx, s); err != nil {
		a.log.Error().Err(err).Str("route", s.Route()).Str("action", action).Msg("save failed")
		return fmt.Errorf("saving route: %w", err)
	}
	a.log.Info().Str("route", s.Route()).Str("action", action).Int("assignments", s.Len()).Msg("route saved")
	return nil
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
