// Package timesheets provides persistence for timesheet entities with a
// JSON-file and a PostgreSQL backend.
package timesheets

import (
	"context"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

type Repository interface {
	// Add persists a new timesheet with its membership set.
	Add(ctx context.Context, t *models.Timesheet) error
	// GetByID returns the timesheet or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Timesheet, error)
	// ListByUser returns all timesheets owned by userID.
	ListByUser(ctx context.Context, userID string) ([]*models.Timesheet, error)
	// HasPeriodOverlap reports whether [start, end] intersects an existing
	// timesheet period of the user, ignoring the timesheet with excludeID.
	// Period bounds are inclusive, so sheets sharing a boundary date
	// conflict.
	HasPeriodOverlap(ctx context.Context, userID string, start, end timex.Date, excludeID string) (bool, error)
	// Update replaces the stored timesheet and its membership set, matched
	// by id.
	Update(ctx context.Context, t *models.Timesheet) error
	// Delete removes the timesheet. Deleting a missing timesheet returns
	// common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
