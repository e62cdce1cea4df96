// Package models contains the domain entities: plain structs with embedded
// validation and lifecycle-transition rules. Entities marshal directly to
// their persisted representation: lowercase enum strings, YYYY-MM-DD dates,
// ISO-8601 timestamps, null for absent optional fields.
package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle status of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// ParseProjectStatus validates a wire value, failing closed on unknown input.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(s) {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return ProjectStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown project status %q", common.ErrValidation, s)
}

func (s *ProjectStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseProjectStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

var colorCodeRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColorCode reports whether code is a #RRGGBB hex color.
func ValidColorCode(code string) bool {
	return colorCodeRe.MatchString(code)
}

// Project represents a work project or client initiative. Its name is unique
// within the owner's project set.
type Project struct {
	ID          string        `json:"project_id"`
	UserID      string        `json:"user_id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	ColorCode   *string       `json:"color_code"`
	Status      ProjectStatus `json:"status"`
	Deadline    *timex.Date   `json:"deadline"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewProject creates an active project owned by userID.
func NewProject(userID, name string) *Project {
	now := time.Now()
	return &Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Status:    ProjectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetColorCode sets or clears the color after validating the #RRGGBB format.
func (p *Project) SetColorCode(code *string) error {
	if code != nil && !ValidColorCode(*code) {
		return common.ErrInvalidColor
	}
	p.ColorCode = code
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateStatus transitions the project to the given status. Transitions are
// unrestricted; archived projects only reject new time entries, which is
// enforced at the service layer.
func (p *Project) UpdateStatus(status ProjectStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

func (p *Project) Archive() {
	p.UpdateStatus(ProjectStatusArchived)
}

func (p *Project) IsArchived() bool {
	return p.Status == ProjectStatusArchived
}
