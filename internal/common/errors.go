// Package common defines shared sentinel errors used across all layers of
// timekeeper. Callers should use errors.Is to match these values.
//
// Errors are organized in two levels: four category sentinels matching the
// failure taxonomy (validation, conflict, not found, state), and specific
// sentinels wrapping their category. errors.Is matches on both levels, so a
// handler can branch on the category while a test can assert the exact cause.
package common

import (
	"errors"
	"fmt"
)

var (
	// Category sentinels.
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")

	// Validation errors: malformed input, rejected before any mutation.
	ErrInvalidColor     = fmt.Errorf("%w: invalid hex color code", ErrValidation)
	ErrStartInFuture    = fmt.Errorf("%w: start time cannot be in the future", ErrValidation)
	ErrEndNotAfterStart = fmt.Errorf("%w: end time must be after start time", ErrValidation)
	ErrInvalidPeriod    = fmt.Errorf("%w: end date must be on or after start date", ErrValidation)
	ErrOwnerMismatch    = fmt.Errorf("%w: project does not belong to user", ErrValidation)

	// Conflict errors: uniqueness or overlap violations, rejected before any mutation.
	ErrAlreadyExists       = fmt.Errorf("%w: already exists", ErrConflict)
	ErrDuplicateName       = fmt.Errorf("%w: project name already exists for this user", ErrConflict)
	ErrDuplicateUsername   = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrOverlap             = fmt.Errorf("%w: time entry overlaps an existing entry", ErrConflict)
	ErrPeriodOverlap       = fmt.Errorf("%w: timesheet period overlaps an existing timesheet", ErrConflict)
	ErrTimerAlreadyRunning = fmt.Errorf("%w: user already has a running timer", ErrConflict)
	ErrActiveTimer         = fmt.Errorf("%w: project has a running timer", ErrConflict)
	ErrProjectHasEntries   = fmt.Errorf("%w: project has existing time entries", ErrConflict)

	// State errors: the operation is invalid for the entity's current
	// lifecycle state. The entity is left unchanged.
	ErrTimerNotRunning        = fmt.Errorf("%w: timer is not running", ErrState)
	ErrTimesheetLocked        = fmt.Errorf("%w: timesheet is locked", ErrState)
	ErrInvalidTransition      = fmt.Errorf("%w: illegal timesheet status transition", ErrState)
	ErrProjectArchived        = fmt.Errorf("%w: project is archived", ErrState)
	ErrCannotDuplicateRunning = fmt.Errorf("%w: cannot duplicate a running entry", ErrState)

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
