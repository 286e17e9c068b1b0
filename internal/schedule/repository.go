package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RouteSummary describes a stored route without loading its assignments.
type RouteSummary struct {
	Name        string
	GroupID     uuid.UUID
	Assignments int
	UpdatedAt   time.Time
}

// Repository stores schedules keyed by route name.
type Repository interface {
	// SaveSchedule replaces the stored schedule of s.Route() atomically.
	// Returns ErrGroupAlreadyScheduled if another route holds the same group.
	SaveSchedule(ctx context.Context, s *Schedule) error

	// LoadSchedule returns the stored schedule for a route.
	// Returns ErrRouteNotFound if the route does not exist.
	LoadSchedule(ctx context.Context, route string) (*Schedule, error)

	// ListRoutes returns every stored route ordered by name.
	ListRoutes(ctx context.Context) ([]RouteSummary, error)

	// DeleteSchedule removes a route and its assignments.
	// Returns ErrRouteNotFound if the route does not exist.
	DeleteSchedule(ctx context.Context, route string) error

	// Close releases any resources held by the repository.
	Close() error
}
