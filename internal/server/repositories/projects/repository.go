// Package projects provides persistence for project entities with a
// JSON-file and a PostgreSQL backend.
package projects

import (
	"context"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

type Repository interface {
	// Add persists a new project.
	Add(ctx context.Context, p *models.Project) error
	// GetByID returns the project or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// ListByUser returns all projects owned by userID.
	ListByUser(ctx context.Context, userID string) ([]*models.Project, error)
	// ExistsWithName reports whether the user already has a project with
	// this name, ignoring the project with excludeID.
	ExistsWithName(ctx context.Context, userID, name, excludeID string) (bool, error)
	// Update replaces the stored project, matched by id.
	Update(ctx context.Context, p *models.Project) error
	// Delete removes the project. Deleting a missing project returns
	// common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
