package timesheets

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/jsonfile"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// JSONRepository stores timesheets in a single timesheets.json collection
// file, serialized under the repository mutex. Membership is embedded in the
// entry_ids field of each document.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONRepository(dataDir string) *JSONRepository {
	return &JSONRepository{path: filepath.Join(dataDir, "timesheets.json")}
}

func (r *JSONRepository) load() ([]*models.Timesheet, error) {
	items := []*models.Timesheet{}
	if err := jsonfile.Load(r.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *JSONRepository) Add(ctx context.Context, t *models.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == t.ID {
			return fmt.Errorf("timesheet %s: %w", t.ID, common.ErrAlreadyExists)
		}
	}
	items = append(items, t)
	return jsonfile.Save(r.path, items)
}

func (r *JSONRepository) GetByID(ctx context.Context, id string) (*models.Timesheet, error) {
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
	return nil, fmt.Errorf("timesheet %s: %w", id, common.ErrNotFound)
}

func (r *JSONRepository) ListByUser(ctx context.Context, userID string) ([]*models.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	result := []*models.Timesheet{}
	for _, item := range items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *JSONRepository) HasPeriodOverlap(ctx context.Context, userID string, start, end timex.Date, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.UserID != userID || item.ID == excludeID {
			continue
		}
		// inclusive bounds: sheets sharing a boundary date conflict
		if !start.After(item.EndDate) && !end.Before(item.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *JSONRepository) Update(ctx context.Context, t *models.Timesheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == t.ID {
			items[i] = t
			return jsonfile.Save(r.path, items)
		}
	}
	return fmt.Errorf("timesheet %s: %w", t.ID, common.ErrNotFound)
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
	return fmt.Errorf("timesheet %s: %w", id, common.ErrNotFound)
}
