// Package timeentries provides persistence for time entry entities with a
// JSON-file and a PostgreSQL backend.
package timeentries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

type Repository interface {
	// Add persists a new entry.
	Add(ctx context.Context, e *models.TimeEntry) error
	// GetByID returns the entry or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.TimeEntry, error)
	// ListByUser returns all entries owned by userID.
	ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error)
	// ListByProject returns all entries recorded against projectID.
	ListByProject(ctx context.Context, projectID string) ([]*models.TimeEntry, error)
	// ListByUserBetween returns the user's entries with a start time in
	// [from, to).
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.TimeEntry, error)
	// GetRunning returns the user's running entry, or common.ErrNotFound
	// when no timer is active.
	GetRunning(ctx context.Context, userID string) (*models.TimeEntry, error)
	// HasOverlap reports whether [start, end) intersects any of the user's
	// completed entries, ignoring the entry with excludeID. Touching
	// boundaries do not count as an overlap. Running entries have no end
	// and are never considered.
	HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error)
	// Update replaces the stored entry, matched by id.
	Update(ctx context.Context, e *models.TimeEntry) error
	// Delete removes the entry. Deleting a missing entry returns
	// common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
