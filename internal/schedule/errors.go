package schedule

import "errors"

// Constraint errors returned by Validate and by every mutation of a Schedule.
var (
	ErrDurationOutOfRange         = errors.New("duration out of range")
	ErrOutsideOperatingWindow     = errors.New("outside operating window")
	ErrOverlapsExistingAssignment = errors.New("overlaps existing assignment")
	ErrCascadeWouldExceedWindow   = errors.New("cascade would exceed operating window")
	ErrAssignmentNotFound         = errors.New("assignment not found")
)

// Aggregate errors.
var (
	ErrAssignmentExists = errors.New("cell is already assigned")
	ErrEmptyCellID      = errors.New("cell id cannot be empty")
	ErrInvalidSchedule  = errors.New("invalid schedule")
)

// Persistence errors, returned by Repository implementations.
var (
	ErrRouteNotFound         = errors.New("route not found")
	ErrGroupAlreadyScheduled = errors.New("group already has a schedule")
)
