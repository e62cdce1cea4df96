package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timesheets"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// TimesheetPatch enumerates the mutable timesheet fields. Date changes are
// rejected on locked sheets and re-checked for period overlap.
type TimesheetPatch struct {
	Name       *string
	PeriodType *models.PeriodType
	StartDate  *timex.Date
	EndDate    *timex.Date
}

// TimesheetService manages the Draft/Submitted/Approved lifecycle, the
// non-overlapping-period invariant and entry membership.
type TimesheetService struct {
	sheets  timesheets.Repository
	entries timeentries.Repository
}

func NewTimesheetService(sheets timesheets.Repository, entries timeentries.Repository) *TimesheetService {
	return &TimesheetService{sheets: sheets, entries: entries}
}

// Create makes a draft timesheet for the period and absorbs the owner's
// unattached entries whose start date falls inside it, stamping their
// back-reference. Entries already claimed by another timesheet are skipped.
func (s *TimesheetService) Create(ctx context.Context, userID, name string, periodType models.PeriodType, start, end timex.Date) (*models.Timesheet, error) {
	if end.Before(start) {
		return nil, common.ErrInvalidPeriod
	}

	overlap, err := s.sheets.HasPeriodOverlap(ctx, userID, start, end, "")
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, common.ErrPeriodOverlap
	}

	sheet := models.NewTimesheet(userID, name, periodType, start, end)

	inRange, err := s.entries.ListByUserBetween(ctx, userID, start.Time(), end.AddDays(1).Time())
	if err != nil {
		return nil, err
	}
	absorbed := []*models.TimeEntry{}
	members := []models.TimeEntry{}
	for _, e := range inRange {
		if e.TimesheetID != nil {
			continue
		}
		if err := sheet.AddEntry(e.ID); err != nil {
			return nil, err
		}
		e.TimesheetID = &sheet.ID
		absorbed = append(absorbed, e)
		members = append(members, *e)
	}
	sheet.CalculateTotalHours(members)

	if err := s.sheets.Add(ctx, sheet); err != nil {
		return nil, err
	}
	for _, e := range absorbed {
		if err := s.entries.Update(ctx, e); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}

// AddEntries adds the given entries to a draft timesheet, stamping each
// existing entry's back-reference, and recomputes the total. Unknown entry
// ids still join the membership set and are skipped by the total.
func (s *TimesheetService) AddEntries(ctx context.Context, id string, entryIDs []string) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, entryID := range entryIDs {
		if err := sheet.AddEntry(entryID); err != nil {
			return nil, err
		}
		e, err := s.entries.GetByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		e.TimesheetID = &sheet.ID
		if err := s.entries.Update(ctx, e); err != nil {
			return nil, err
		}
	}

	if err := s.recalc(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// RemoveEntries removes the given entries from a draft timesheet, clearing
// their back-references, and recomputes the total. Removing a non-member is
// a no-op.
func (s *TimesheetService) RemoveEntries(ctx context.Context, id string, entryIDs []string) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, entryID := range entryIDs {
		if err := sheet.RemoveEntry(entryID); err != nil {
			return nil, err
		}
		e, err := s.entries.GetByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if e.TimesheetID != nil && *e.TimesheetID == sheet.ID {
			e.TimesheetID = nil
			if err := s.entries.Update(ctx, e); err != nil {
				return nil, err
			}
		}
	}

	if err := s.recalc(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Recalculate re-derives the total from current members. Missing entries are
// silently skipped.
func (s *TimesheetService) Recalculate(ctx context.Context, id string) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.recalc(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func (s *TimesheetService) recalc(ctx context.Context, sheet *models.Timesheet) error {
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

// Submit transitions Draft → Submitted.
func (s *TimesheetService) Submit(ctx context.Context, id string) (*models.Timesheet, error) {
	return s.transition(ctx, id, (*models.Timesheet).Submit)
}

// Approve transitions Submitted → Approved.
func (s *TimesheetService) Approve(ctx context.Context, id string) (*models.Timesheet, error) {
	return s.transition(ctx, id, (*models.Timesheet).Approve)
}

// Revert unlocks a submitted or approved timesheet back to draft.
func (s *TimesheetService) Revert(ctx context.Context, id string) (*models.Timesheet, error) {
	return s.transition(ctx, id, func(t *models.Timesheet) error {
		t.RevertToDraft()
		return nil
	})
}

func (s *TimesheetService) transition(ctx context.Context, id string, apply func(*models.Timesheet) error) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sheet); err != nil {
		return nil, err
	}
	if err := s.sheets.Update(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Update applies a patch. Name and period type may change at any time; date
// changes require a draft sheet and re-check the period overlap excluding
// the sheet itself.
func (s *TimesheetService) Update(ctx context.Context, id string, patch TimesheetPatch) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.StartDate != nil || patch.EndDate != nil {
		if sheet.IsLocked() {
			return nil, common.ErrTimesheetLocked
		}
		start := sheet.StartDate
		end := sheet.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}

		overlap, err := s.sheets.HasPeriodOverlap(ctx, sheet.UserID, start, end, sheet.ID)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, common.ErrPeriodOverlap
		}
		if err := sheet.UpdateDates(start, end); err != nil {
			return nil, err
		}
	}
	if patch.Name != nil {
		sheet.Name = *patch.Name
	}
	if patch.PeriodType != nil {
		sheet.PeriodType = *patch.PeriodType
	}

	if err := s.sheets.Update(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Delete removes a draft timesheet, clearing the back-references of its
// member entries. Locked timesheets cannot be deleted.
func (s *TimesheetService) Delete(ctx context.Context, id string) error {
	sheet, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sheet.IsLocked() {
		return common.ErrTimesheetLocked
	}

	for _, entryID := range sheet.EntryIDs {
		e, err := s.entries.GetByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return err
		}
		if e.TimesheetID != nil && *e.TimesheetID == sheet.ID {
			e.TimesheetID = nil
			if err := s.entries.Update(ctx, e); err != nil {
				return err
			}
		}
	}

	return s.sheets.Delete(ctx, id)
}

// Get returns a timesheet by id.
func (s *TimesheetService) Get(ctx context.Context, id string) (*models.Timesheet, error) {
	return s.sheets.GetByID(ctx, id)
}

// List returns all timesheets owned by userID.
func (s *TimesheetService) List(ctx context.Context, userID string) ([]*models.Timesheet, error) {
	return s.sheets.ListByUser(ctx, userID)
}

// FindByPeriod returns the owner's timesheet covering the given period, or
// common.ErrNotFound.
func (s *TimesheetService) FindByPeriod(ctx context.Context, userID string, start, end timex.Date) (*models.Timesheet, error) {
	all, err := s.sheets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, sheet := range all {
		if !sheet.StartDate.After(start) && !sheet.EndDate.Before(end) {
			return sheet, nil
		}
	}
	return nil, common.ErrNotFound
}
