package models

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/google/uuid"
)

// TimeEntry represents an individual work session. An entry with no end time
// is running; at most one running entry may exist per user.
//
// Start and end times are stored in UTC, so an entry's calendar date is its
// UTC date. Date-window queries and report groupings rely on this.
type TimeEntry struct {
	ID              string     `json:"entry_id"`
	UserID          string     `json:"user_id"`
	ProjectID       string     `json:"project_id"`
	TimesheetID     *string    `json:"timesheet_id"`
	Description     *string    `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	IsRunning       bool       `json:"is_running"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewTimeEntry creates a stopped entry with start time now and no end time.
// Use StartTimer or UpdateTimes to put it into a concrete state.
func NewTimeEntry(userID, projectID string, description *string) *TimeEntry {
	now := time.Now().UTC()
	return &TimeEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		ProjectID:   projectID,
		Description: description,
		StartTime:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CalculateDuration recomputes the derived duration in minutes. A running
// entry has duration 0.
func (e *TimeEntry) CalculateDuration() {
	if e.EndTime != nil {
		e.DurationMinutes = int(math.Round(e.EndTime.Sub(e.StartTime).Minutes()))
	} else {
		e.DurationMinutes = 0
	}
}

// StartTimer puts the entry into the running state with start time now.
func (e *TimeEntry) StartTimer() {
	now := time.Now().UTC()
	e.StartTime = now
	e.EndTime = nil
	e.IsRunning = true
	e.UpdatedAt = now
	e.CalculateDuration()
}

// StopTimer stops a running entry, setting the end time to now and
// recomputing the duration. Stopping a stopped entry is a no-op.
func (e *TimeEntry) StopTimer() {
	if !e.IsRunning {
		return
	}
	now := time.Now().UTC()
	e.EndTime = &now
	e.IsRunning = false
	e.UpdatedAt = now
	e.CalculateDuration()
}

// UpdateTimes replaces the start and end times after validating that the
// start is not in the future and the end, when set, is after the start.
// The running flag follows from the end time being unset. Incoming times
// may carry any offset; they are normalized to UTC before being stored.
func (e *TimeEntry) UpdateTimes(start time.Time, end *time.Time) error {
	if start.After(time.Now()) {
		return common.ErrStartInFuture
	}
	if end != nil && !end.After(start) {
		return common.ErrEndNotAfterStart
	}

	e.StartTime = start.UTC()
	if end != nil {
		utc := end.UTC()
		e.EndTime = &utc
	} else {
		e.EndTime = nil
	}
	e.IsRunning = end == nil
	e.UpdatedAt = time.Now().UTC()
	e.CalculateDuration()
	return nil
}

// DurationFormatted returns the duration as zero-padded HH:MM.
func (e *TimeEntry) DurationFormatted() string {
	return fmt.Sprintf("%02d:%02d", e.DurationMinutes/60, e.DurationMinutes%60)
}
