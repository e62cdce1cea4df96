package projects

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/jsonfile"
)

// JSONRepository stores projects in a single projects.json collection file.
// Every mutation loads the full collection, applies the change and writes it
// back under the repository mutex.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONRepository(dataDir string) *JSONRepository {
	return &JSONRepository{path: filepath.Join(dataDir, "projects.json")}
}

func (r *JSONRepository) load() ([]*models.Project, error) {
	items := []*models.Project{}
	if err := jsonfile.Load(r.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *JSONRepository) Add(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == p.ID {
			return fmt.Errorf("project %s: %w", p.ID, common.ErrAlreadyExists)
		}
	}
	items = append(items, p)
	return jsonfile.Save(r.path, items)
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", id, common.ErrNotFound)
}

func (r *JSONRepository) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	result := []*models.Project{}
	for _, item := range items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *JSONRepository) ExistsWithName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.UserID == userID && item.Name == name && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *JSONRepository) Update(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == p.ID {
			items[i] = p
			return jsonfile.Save(r.path, items)
		}
	}
	return fmt.Errorf("project %s: %w", p.ID, common.ErrNotFound)
}

func (r *JSONRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == id {
			items = append(items[:i], items[i+1:]...)
			return jsonfile.Save(r.path, items)
		}
	}
	return fmt.Errorf("project %s: %w", id, common.ErrNotFound)
}
