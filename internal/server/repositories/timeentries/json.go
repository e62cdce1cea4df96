package timeentries

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/jsonfile"
)

// JSONRepository stores time entries in a single time_entries.json collection
// file, serialized under the repository mutex.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONRepository(dataDir string) *JSONRepository {
	return &JSONRepository{path: filepath.Join(dataDir, "time_entries.json")}
}

func (r *JSONRepository) load() ([]*models.TimeEntry, error) {
	items := []*models.TimeEntry{}
	if err := jsonfile.Load(r.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *JSONRepository) Add(ctx context.Context, e *models.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == e.ID {
			return fmt.Errorf("time entry %s: %w", e.ID, common.ErrAlreadyExists)
		}
	}
	items = append(items, e)
	return jsonfile.Save(r.path, items)
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.TimeEntry, error) {
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
	return nil, fmt.Errorf("time entry %s: %w", id, common.ErrNotFound)
}

func (r *JSONRepository) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(e *models.TimeEntry) bool { return e.UserID == userID })
}

func (r *JSONRepository) ListByProject(ctx context.Context, projectID string) ([]*models.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(e *models.TimeEntry) bool { return e.ProjectID == projectID })
}

func (r *JSONRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(e *models.TimeEntry) bool {
		return e.UserID == userID && !e.StartTime.Before(from) && e.StartTime.Before(to)
	})
}

// filter must be called with the mutex held.
func (r *JSONRepository) filter(keep func(*models.TimeEntry) bool) ([]*models.TimeEntry, error) {
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	result := []*models.TimeEntry{}
	for _, item := range items {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *JSONRepository) GetRunning(ctx context.Context, userID string) (*models.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.UserID == userID && item.IsRunning {
			return item, nil
		}
	}
	return nil, fmt.Errorf("running timer for user %s: %w", userID, common.ErrNotFound)
}

func (r *JSONRepository) HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.UserID != userID || item.ID == excludeID || item.EndTime == nil {
			continue
		}
		// half-open intervals: an entry ending exactly at start (or
		// starting exactly at end) does not overlap
		if start.Before(*item.EndTime) && end.After(item.StartTime) {
			return true, nil
		}
	}
	return false, nil
}

func (r *JSONRepository) Update(ctx context.Context, e *models.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == e.ID {
			items[i] = e
			return jsonfile.Save(r.path, items)
		}
	}
	return fmt.Errorf("time entry %s: %w", e.ID, common.ErrNotFound)
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
	return fmt.Errorf("time entry %s: %w", id, common.ErrNotFound)
}
