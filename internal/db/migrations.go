package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS routes (
			name          TEXT PRIMARY KEY,
			group_id      TEXT NOT NULL UNIQUE,
			window_start  INTEGER NOT NULL,
			window_end    INTEGER NOT NULL CHECK(window_end > window_start),
			min_duration  INTEGER NOT NULL CHECK(min_duration > 0),
			max_duration  INTEGER NOT NULL CHECK(max_duration >= min_duration),
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS assignments (
			route            TEXT NOT NULL,
			cell_id          TEXT NOT NULL,
			sequence         INTEGER NOT NULL,
			start_minute     INTEGER NOT NULL,
			end_minute       INTEGER NOT NULL CHECK(end_minute > start_minute),
			duration_minutes INTEGER NOT NULL,
			PRIMARY KEY (route, cell_id)
		);

		CREATE TABLE IF NOT EXISTS route_cells (
			route    TEXT NOT NULL,
			cell_id  TEXT NOT NULL,
			ordinal  INTEGER NOT NULL,
			PRIMARY KEY (route, cell_id)
		);

		CREATE INDEX IF NOT EXISTS idx_assignments_route ON assignments(route, start_minute);
		CREATE INDEX IF NOT EXISTS idx_route_cells_route ON route_cells(route, ordinal);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
