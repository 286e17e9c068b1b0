// Package db provides SQLite storage for route schedules and candidate cells.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/hexroute/internal/cells"
	"github.com/javiermolinar/hexroute/internal/schedule"
	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ schedule.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SaveSchedule replaces the stored schedule of a route in one transaction.
// Only one route may hold a given group; a second one gets
// schedule.ErrGroupAlreadyScheduled.
func (s *SQLite) SaveSchedule(ctx context.Context, sched *schedule.Schedule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM routes WHERE group_id = ? AND name != ? LIMIT 1`,
		sched.GroupID().String(), sched.Route(),
	).Scan(&owner)
	switch {
	case err == nil:
		return fmt.Errorf("%w: group %s belongs to route %q",
			schedule.ErrGroupAlreadyScheduled, sched.GroupID(), owner)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking group: %w", err)
	}

	c := sched.Constraints()
	now := s.now().UTC().Format(time.RFC3339)
	upsert := `
		INSERT INTO routes (
			name, group_id, window_start, window_end, min_duration, max_duration,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			group_id     = excluded.group_id,
			window_start = excluded.window_start,
			window_end   = excluded.window_end,
			min_duration = excluded.min_duration,
			max_duration = excluded.max_duration,
			updated_at   = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, upsert,
		sched.Route(),
		sched.GroupID().String(),
		c.Window.Start.Minutes(),
		c.Window.End.Minutes(),
		c.MinDuration,
		c.MaxDuration,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("saving route: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE route = ?`, sched.Route()); err != nil {
		return fmt.Errorf("clearing assignments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assignments (
			route, cell_id, sequence, start_minute, end_minute, duration_minutes
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for a := range sched.Chronological() {
		_, err := stmt.ExecContext(ctx,
			sched.Route(),
			a.CellID,
			a.Sequence,
			a.Slot.Start.Minutes(),
			a.Slot.End.Minutes(),
			a.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("inserting assignment %q: %w", a.CellID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// LoadSchedule reads a route and rebuilds its schedule, re-checking every
// invariant on the way in.
func (s *SQLite) LoadSchedule(ctx context.Context, route string) (*schedule.Schedule, error) {
	var (
		groupID     string
		windowStart int
		windowEnd   int
		minDuration int
		maxDuration int
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT group_id, window_start, window_end, min_duration, max_duration
		FROM routes
		WHERE name = ?
	`, route).Scan(&groupID, &windowStart, &windowEnd, &minDuration, &maxDuration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", schedule.ErrRouteNotFound, route)
	}
	if err != nil {
		return nil, fmt.Errorf("querying route: %w", err)
	}

	group, err := uuid.Parse(groupID)
	if err != nil {
		return nil, fmt.Errorf("parsing group id: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cell_id, sequence, start_minute, end_minute, duration_minutes
		FROM assignments
		WHERE route = ?
		ORDER BY start_minute
	`, route)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assignments []schedule.Assignment
	for rows.Next() {
		var (
			a          schedule.Assignment
			start, end int
		)
		if err := rows.Scan(&a.CellID, &a.Sequence, &start, &end, &a.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.Slot = timeslot.Slot{Start: timeslot.FromMinutes(start), End: timeslot.FromMinutes(end)}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}

	c := schedule.Constraints{
		Window:      timeslot.Window{Start: timeslot.FromMinutes(windowStart), End: timeslot.FromMinutes(windowEnd)},
		MinDuration: minDuration,
		MaxDuration: maxDuration,
	}
	sched, err := schedule.Restore(route, group, c, assignments)
	if err != nil {
		return nil, fmt.Errorf("restoring route %q: %w", route, err)
	}
	return sched, nil
}

// ListRoutes returns every stored route ordered by name.
func (s *SQLite) ListRoutes(ctx context.Context) ([]schedule.RouteSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, r.group_id, r.updated_at, COUNT(a.cell_id)
		FROM routes r
		LEFT JOIN assignments a ON a.route = r.name
		GROUP BY r.name, r.group_id, r.updated_at
		ORDER BY r.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var routes []schedule.RouteSummary
	for rows.Next() {
		var (
			r         schedule.RouteSummary
			groupID   string
			updatedAt string
		)
		if err := rows.Scan(&r.Name, &groupID, &updatedAt, &r.Assignments); err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		if r.GroupID, err = uuid.Parse(groupID); err != nil {
			return nil, fmt.Errorf("parsing group id: %w", err)
		}
		if r.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated at: %w", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating routes: %w", err)
	}

	return routes, nil
}

// DeleteSchedule removes a route, its assignments and its candidate cells.
func (s *SQLite) DeleteSchedule(ctx context.Context, route string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE name = ?`, route)
	if err != nil {
		return fmt.Errorf("deleting route: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %q", schedule.ErrRouteNotFound, route)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE route = ?`, route); err != nil {
		return fmt.Errorf("deleting assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_cells WHERE route = ?`, route); err != nil {
		return fmt.Errorf("deleting cells: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveCells replaces the candidate cells of a route.
func (s *SQLite) SaveCells(ctx context.Context, route string, cs []cells.Cell) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_cells WHERE route = ?`, route); err != nil {
		return fmt.Errorf("clearing cells: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO route_cells (route, cell_id, ordinal) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range cs {
		if _, err := stmt.ExecContext(ctx, route, c.ID, c.Ordinal); err != nil {
			return fmt.Errorf("inserting cell %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListCells returns the candidate cells of a route in ordinal order.
// A route without imported cells yields an empty slice.
func (s *SQLite) ListCells(ctx context.Context, route string) ([]cells.Cell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cell_id, ordinal
		FROM route_cells
		WHERE route = ?
		ORDER BY ordinal
	`, route)
	if err != nil {
		return nil, fmt.Errorf("querying cells: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []cells.Cell
	for rows.Next() {
		var c cells.Cell
		if err := rows.Scan(&c.ID, &c.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cells: %w", err)
	}
	return result, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseTimestamp parses a timestamp in the formats SQLite might return.
func parseTimestamp(v string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", v)
}
