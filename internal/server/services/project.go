// Package services contains the domain logic of timekeeper. Services
// orchestrate entities and repositories and enforce the cross-entity
// invariants: unique project names per owner, non-overlapping time entries
// and timesheet periods, the single-running-timer rule, and locked-timesheet
// immutability. Partial updates use typed patch structs; a nil field means
// "leave unchanged".
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/projects"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// ProjectPatch enumerates the mutable project fields.
type ProjectPatch struct {
	Name        *string
	Description *string
	ColorCode   *string
	Status      *models.ProjectStatus
	Deadline    *timex.Date
}

// TimeSummary is the aggregated time spent on a project.
type TimeSummary struct {
	ProjectID    string      `json:"project_id"`
	TotalHours   float64     `json:"total_hours"`
	TotalMinutes int         `json:"total_minutes"`
	EntryCount   int         `json:"entry_count"`
	StartDate    *timex.Date `json:"start_date"`
	EndDate      *timex.Date `json:"end_date"`
}

// ProjectService manages the project lifecycle.
type ProjectService struct {
	projects projects.Repository
	entries  timeentries.Repository
}

func NewProjectService(projects projects.Repository, entries timeentries.Repository) *ProjectService {
	return &ProjectService{projects: projects, entries: entries}
}

// Create makes a new active project after checking the per-owner name
// uniqueness and the color format.
func (s *ProjectService) Create(ctx context.Context, userID, name string, description, colorCode *string, deadline *timex.Date) (*models.Project, error) {
	taken, err := s.projects.ExistsWithName(ctx, userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %q", common.ErrDuplicateName, name)
	}

	p := models.NewProject(userID, name)
	p.Description = description
	p.Deadline = deadline
	if err := p.SetColorCode(colorCode); err != nil {
		return nil, err
	}

	if err := s.projects.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a patch. A name change re-checks uniqueness and a color
// change re-validates the format; nothing is persisted on failure.
func (s *ProjectService) Update(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != p.Name {
		taken, err := s.projects.ExistsWithName(ctx, p.UserID, *patch.Name, p.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", common.ErrDuplicateName, *patch.Name)
		}
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.ColorCode != nil {
		if err := p.SetColorCode(patch.ColorCode); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		p.UpdateStatus(*patch.Status)
	}
	if patch.Deadline != nil {
		p.Deadline = patch.Deadline
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Archive marks the project archived. It refuses while the owner's running
// timer is recording against this project.
func (s *ProjectService) Archive(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	running, err := s.entries.GetRunning(ctx, p.UserID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if running != nil && running.ProjectID == p.ID {
		return nil, common.ErrActiveTimer
	}

	p.Archive()
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project. It refuses while any time entry still
// references it.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return err
	}

	entries, err := s.entries.ListByProject(ctx, id)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return common.ErrProjectHasEntries
	}

	return s.projects.Delete(ctx, id)
}

// Get returns a project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List returns the user's projects, optionally filtered by status.
func (s *ProjectService) List(ctx context.Context, userID string, status *models.ProjectStatus) ([]*models.Project, error) {
	all, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return all, nil
	}
	filtered := []*models.Project{}
	for _, p := range all {
		if p.Status == *status {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// TimeSummary aggregates the time recorded against the project, optionally
// restricted to an inclusive date range on entry start dates.
func (s *ProjectService) TimeSummary(ctx context.Context, id string, from, to *timex.Date) (*TimeSummary, error) {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	totalMinutes := 0
	count := 0
	for _, e := range entries {
		if from != nil && to != nil {
			d := timex.DateOf(e.StartTime)
			if d.Before(*from) || d.After(*to) {
				continue
			}
		}
		totalMinutes += e.DurationMinutes
		count++
	}

	return &TimeSummary{
		ProjectID:    id,
		TotalHours:   roundHours(totalMinutes),
		TotalMinutes: totalMinutes,
		EntryCount:   count,
		StartDate:    from,
		EndDate:      to,
	}, nil
}
