package models

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
	"github.com/google/uuid"
)

// PeriodType classifies the calendar period a timesheet covers.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodCustom  PeriodType = "custom"
)

// ParsePeriodType validates a wire value, failing closed on unknown input.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodCustom:
		return PeriodType(s), nil
	}
	return "", fmt.Errorf("%w: unknown period type %q", common.ErrValidation, s)
}

func (p *PeriodType) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParsePeriodType(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// TimesheetStatus is the approval state of a timesheet.
// Draft → Submitted → Approved, with revert back to Draft.
type TimesheetStatus string

const (
	TimesheetDraft     TimesheetStatus = "draft"
	TimesheetSubmitted TimesheetStatus = "submitted"
	TimesheetApproved  TimesheetStatus = "approved"
)

// ParseTimesheetStatus validates a wire value, failing closed on unknown input.
func ParseTimesheetStatus(s string) (TimesheetStatus, error) {
	switch TimesheetStatus(s) {
	case TimesheetDraft, TimesheetSubmitted, TimesheetApproved:
		return TimesheetStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown timesheet status %q", common.ErrValidation, s)
}

func (s *TimesheetStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimesheetStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Timesheet groups time entries for a period. Periods of the same user never
// overlap. Submitted and approved timesheets are locked: membership and dates
// cannot change until the timesheet is reverted to draft.
type Timesheet struct {
	ID         string          `json:"timesheet_id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	PeriodType PeriodType      `json:"period_type"`
	StartDate  timex.Date      `json:"start_date"`
	EndDate    timex.Date      `json:"end_date"`
	Status     TimesheetStatus `json:"status"`
	TotalHours float64         `json:"total_hours"`
	EntryIDs   []string        `json:"entry_ids"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewTimesheet creates a draft timesheet for the given period.
func NewTimesheet(userID, name string, periodType PeriodType, start, end timex.Date) *Timesheet {
	now := time.Now()
	return &Timesheet{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       name,
		PeriodType: periodType,
		StartDate:  start,
		EndDate:    end,
		Status:     TimesheetDraft,
		EntryIDs:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsLocked reports whether the timesheet rejects membership/date mutation.
func (t *Timesheet) IsLocked() bool {
	return t.Status == TimesheetSubmitted || t.Status == TimesheetApproved
}

// UpdateDates replaces the period after validating end >= start.
func (t *Timesheet) UpdateDates(start, end timex.Date) error {
	if end.Before(start) {
		return common.ErrInvalidPeriod
	}
	t.StartDate = start
	t.EndDate = end
	t.UpdatedAt = time.Now()
	return nil
}

// Submit transitions Draft → Submitted.
func (t *Timesheet) Submit() error {
	if t.Status != TimesheetDraft {
		return common.ErrInvalidTransition
	}
	t.Status = TimesheetSubmitted
	t.UpdatedAt = time.Now()
	return nil
}

// Approve transitions Submitted → Approved.
func (t *Timesheet) Approve() error {
	if t.Status != TimesheetSubmitted {
		return common.ErrInvalidTransition
	}
	t.Status = TimesheetApproved
	t.UpdatedAt = time.Now()
	return nil
}

// RevertToDraft unlocks the timesheet. A draft timesheet stays draft.
func (t *Timesheet) RevertToDraft() {
	if t.IsLocked() {
		t.Status = TimesheetDraft
		t.UpdatedAt = time.Now()
	}
}

// AddEntry adds an entry id to the membership set. Adding an existing member
// is a no-op.
func (t *Timesheet) AddEntry(entryID string) error {
	if t.IsLocked() {
		return common.ErrTimesheetLocked
	}
	if !slices.Contains(t.EntryIDs, entryID) {
		t.EntryIDs = append(t.EntryIDs, entryID)
		t.UpdatedAt = time.Now()
	}
	return nil
}

// RemoveEntry removes an entry id from the membership set. Removing a
// non-member is a no-op.
func (t *Timesheet) RemoveEntry(entryID string) error {
	if t.IsLocked() {
		return common.ErrTimesheetLocked
	}
	if i := slices.Index(t.EntryIDs, entryID); i >= 0 {
		t.EntryIDs = slices.Delete(t.EntryIDs, i, i+1)
		t.UpdatedAt = time.Now()
	}
	return nil
}

// CalculateTotalHours re-derives the total from the given entries, counting
// only current members, rounded to two decimals.
func (t *Timesheet) CalculateTotalHours(entries []TimeEntry) {
	totalMinutes := 0
	for _, e := range entries {
		if slices.Contains(t.EntryIDs, e.ID) {
			totalMinutes += e.DurationMinutes
		}
	}
	t.TotalHours = math.Round(float64(totalMinutes)/60.0*100) / 100
	t.UpdatedAt = time.Now()
}

// PeriodDescription returns a human-readable period label.
func (t *Timesheet) PeriodDescription() string {
	switch t.PeriodType {
	case PeriodDaily:
		return fmt.Sprintf("Daily - %s", t.StartDate)
	case PeriodWeekly:
		return fmt.Sprintf("Weekly - %s to %s", t.StartDate, t.EndDate)
	case PeriodMonthly:
		return fmt.Sprintf("Monthly - %s", t.StartDate.Format("January 2006"))
	default:
		return fmt.Sprintf("Custom - %s to %s", t.StartDate, t.EndDate)
	}
}
