package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/projects"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timesheets"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// TimeEntryPatch enumerates the mutable time entry fields. A provided start
// or end time re-runs validation and the overlap check before anything is
// persisted.
type TimeEntryPatch struct {
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
}

// TimeEntryService manages the Running/Stopped entry state machine and the
// no-overlap invariant.
type TimeEntryService struct {
	entries  timeentries.Repository
	projects projects.Repository
	sheets   timesheets.Repository
}

func NewTimeEntryService(entries timeentries.Repository, projects projects.Repository, sheets timesheets.Repository) *TimeEntryService {
	return &TimeEntryService{entries: entries, projects: projects, sheets: sheets}
}

// checkProject validates that the project exists, is not archived, and
// belongs to the caller.
func (s *TimeEntryService) checkProject(ctx context.Context, userID, projectID string) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.IsArchived() {
		return nil, common.ErrProjectArchived
	}
	if p.UserID != userID {
		return nil, common.ErrOwnerMismatch
	}
	return p, nil
}

// StartTimer begins a new running entry. The owner may have at most one
// running entry at a time.
func (s *TimeEntryService) StartTimer(ctx context.Context, userID, projectID string, description *string) (*models.TimeEntry, error) {
	if _, err := s.checkProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	_, err := s.entries.GetRunning(ctx, userID)
	if err == nil {
		return nil, common.ErrTimerAlreadyRunning
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	e := models.NewTimeEntry(userID, projectID, description)
	e.StartTimer()
	if err := s.entries.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// StopTimer stops a running entry and fixes its duration.
func (s *TimeEntryService) StopTimer(ctx context.Context, id string) (*models.TimeEntry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsRunning {
		return nil, common.ErrTimerNotRunning
	}

	e.StopTimer()
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateManual creates a stopped entry for a closed interval, rejecting
// overlaps with the owner's existing entries.
func (s *TimeEntryService) CreateManual(ctx context.Context, userID, projectID string, start, end time.Time, description *string) (*models.TimeEntry, error) {
	if _, err := s.checkProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	e := models.NewTimeEntry(userID, projectID, description)
	if err := e.UpdateTimes(start, &end); err != nil {
		return nil, err
	}

	overlap, err := s.entries.HasOverlap(ctx, userID, start, end, "")
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, common.ErrOverlap
	}

	if err := s.entries.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update applies a patch. Time changes are validated and overlap-checked
// (excluding the entry itself) before the entry is touched.
func (s *TimeEntryService) Update(ctx context.Context, id string, patch TimeEntryPatch) (*models.TimeEntry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.StartTime != nil || patch.EndTime != nil {
		start := e.StartTime
		end := e.EndTime
		if patch.StartTime != nil {
			start = *patch.StartTime
		}
		if patch.EndTime != nil {
			end = patch.EndTime
		}

		if end != nil {
			overlap, err := s.entries.HasOverlap(ctx, e.UserID, start, *end, e.ID)
			if err != nil {
				return nil, err
			}
			if overlap {
				return nil, common.ErrOverlap
			}
		}
		if err := e.UpdateTimes(start, end); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		e.Description = patch.Description
		e.UpdatedAt = time.Now()
	}

	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an entry. If the entry belongs to a draft timesheet it is
// detached first and the sheet's total recomputed; locked timesheets keep
// their membership list, which Recalculate later skips as missing.
func (s *TimeEntryService) Delete(ctx context.Context, id string) error {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if e.TimesheetID != nil {
		sheet, err := s.sheets.GetByID(ctx, *e.TimesheetID)
		if err == nil && !sheet.IsLocked() {
			if err := sheet.RemoveEntry(e.ID); err != nil {
				return err
			}
			if err := s.recalcSheet(ctx, sheet); err != nil {
				return err
			}
		} else if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
	}

	return s.entries.Delete(ctx, id)
}

func (s *TimeEntryService) recalcSheet(ctx context.Context, sheet *models.Timesheet) error {
	members := []models.TimeEntry{}
	for _, entryID := range sheet.EntryIDs {
		e, err := s.entries.GetByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return err
		}
		members = append(members, *e)
	}
	sheet.CalculateTotalHours(members)
	return s.sheets.Update(ctx, sheet)
}

// Duplicate copies a stopped entry onto another calendar date, keeping the
// time of day and duration, and creates it through the manual-entry path so
// all validation re-runs.
func (s *TimeEntryService) Duplicate(ctx context.Context, id string, newDate timex.Date) (*models.TimeEntry, error) {
	original, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.EndTime == nil {
		return nil, common.ErrCannotDuplicateRunning
	}

	duration := original.EndTime.Sub(original.StartTime)
	newStart := newDate.At(original.StartTime)
	newEnd := newStart.Add(duration)

	return s.CreateManual(ctx, original.UserID, original.ProjectID, newStart, newEnd, original.Description)
}

// GetRunning returns the owner's running entry, or common.ErrNotFound.
func (s *TimeEntryService) GetRunning(ctx context.Context, userID string) (*models.TimeEntry, error) {
	return s.entries.GetRunning(ctx, userID)
}

// Get returns an entry by id.
func (s *TimeEntryService) Get(ctx context.Context, id string) (*models.TimeEntry, error) {
	return s.entries.GetByID(ctx, id)
}

// List returns all entries owned by userID.
func (s *TimeEntryService) List(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	return s.entries.ListByUser(ctx, userID)
}

// ListByDateRange returns the owner's entries whose start date falls in the
// inclusive [from, to] range.
func (s *TimeEntryService) ListByDateRange(ctx context.Context, userID string, from, to timex.Date) ([]*models.TimeEntry, error) {
	return s.entries.ListByUserBetween(ctx, userID, from.Time(), to.AddDays(1).Time())
}
