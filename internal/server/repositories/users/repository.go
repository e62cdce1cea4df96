// Package users provides persistence for user accounts with a JSON-file and
// a PostgreSQL backend. Preferences are stored inline with the user record.
package users

import (
	"context"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

type Repository interface {
	// Add persists a new user.
	Add(ctx context.Context, u *models.User) error
	// GetByID returns the user or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByUsername returns the user or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Update replaces the stored user, matched by id.
	Update(ctx context.Context, u *models.User) error
}
