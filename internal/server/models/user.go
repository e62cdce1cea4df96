package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a system user and their preferences. Preferences are an
// open key→value mapping; unknown keys are preserved as-is.
type User struct {
	ID           string         `json:"user_id"`
	Username     string         `json:"username"`
	Email        *string        `json:"email"`
	PasswordHash string         `json:"password_hash,omitempty"`
	Preferences  map[string]any `json:"preferences"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewUser creates a user with an empty preference set.
func NewUser(username string, email *string) *User {
	now := time.Now()
	return &User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		Preferences: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdatePreferences shallow-merges the given mapping into the existing
// preferences: new keys are added, existing keys overwritten, unspecified
// keys untouched.
func (u *User) UpdatePreferences(prefs map[string]any) {
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	for k, v := range prefs {
		u.Preferences[k] = v
	}
	u.UpdatedAt = time.Now()
}

// DefaultPreferences is the preference bundle seeded into lazily created
// users.
func DefaultPreferences() map[string]any {
	return map[string]any{
		"theme":                  "light",
		"default_project_id":     nil,
		"time_format":            "24h",
		"date_format":            "YYYY-MM-DD",
		"auto_start_timer":       false,
		"reminder_notifications": true,
		"keyboard_shortcuts": map[string]any{
			"start_timer":   "Ctrl+S",
			"stop_timer":    "Ctrl+T",
			"new_project":   "Ctrl+N",
			"new_timesheet": "Ctrl+Shift+N",
		},
		"ui_preferences": map[string]any{
			"show_seconds":     false,
			"compact_view":     false,
			"group_by_project": true,
			"default_view":     "daily",
		},
	}
}
