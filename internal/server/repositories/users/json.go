package users

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/jsonfile"
)

// JSONRepository stores users in a single users.json collection file,
// serialized under the repository mutex.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONRepository(dataDir string) *JSONRepository {
	return &JSONRepository{path: filepath.Join(dataDir, "users.json")}
}

func (r *JSONRepository) load() ([]*models.User, error) {
	items := []*models.User{}
	if err := jsonfile.Load(r.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *JSONRepository) Add(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == u.ID {
			return fmt.Errorf("user %s: %w", u.ID, common.ErrAlreadyExists)
		}
		if item.Username == u.Username {
			return common.ErrDuplicateUsername
		}
	}
	items = append(items, u)
	return jsonfile.Save(r.path, items)
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
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
	return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
}

func (r *JSONRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Username == username {
			return item, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, common.ErrNotFound)
}

func (r *JSONRepository) Update(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == u.ID {
			items[i] = u
			return jsonfile.Save(r.path, items)
		}
	}
	return fmt.Errorf("user %s: %w", u.ID, common.ErrNotFound)
}
