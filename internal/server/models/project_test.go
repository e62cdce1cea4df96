package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidColorCode(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"#FF0000", true},
		{"#00ff99", true},
		{"FF0000", false},
		{"#FF000", false},
		{"#FF00000", false},
		{"#GG0000", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.ok, ValidColorCode(tc.code), "code %q", tc.code)
	}
}

func TestProject_SetColorCode(t *testing.T) {
	p := NewProject("u1", "Website")

	require.NoError(t, p.SetColorCode(strPtr("#336699")))
	require.Equal(t, "#336699", *p.ColorCode)

	err := p.SetColorCode(strPtr("blue"))
	require.ErrorIs(t, err, common.ErrInvalidColor)
	require.ErrorIs(t, err, common.ErrValidation)
	// failed set leaves the previous value in place
	require.Equal(t, "#336699", *p.ColorCode)

	require.NoError(t, p.SetColorCode(nil))
	require.Nil(t, p.ColorCode)
}

func TestProject_ArchiveAndStatus(t *testing.T) {
	p := NewProject("u1", "Website")
	require.Equal(t, ProjectStatusActive, p.Status)
	require.False(t, p.IsArchived())

	p.Archive()
	require.True(t, p.IsArchived())

	// unarchiving is allowed
	p.UpdateStatus(ProjectStatusCompleted)
	require.False(t, p.IsArchived())
}

func TestParseProjectStatus_FailsClosed(t *testing.T) {
	for _, s := range []string{"active", "completed", "archived"} {
		got, err := ParseProjectStatus(s)
		require.NoError(t, err)
		require.Equal(t, ProjectStatus(s), got)
	}

	_, err := ParseProjectStatus("deleted")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestProject_JSONRoundTrip(t *testing.T) {
	deadline := timex.NewDate(2024, time.June, 30)
	p := NewProject("u1", "Website")
	p.Description = strPtr("client work")
	p.Deadline = &deadline
	require.NoError(t, p.SetColorCode(strPtr("#336699")))

	b, err := json.Marshal(p)
	require.NoError(t, err)

	// persisted representation uses lowercase enums and null optionals
	assert.Contains(t, string(b), `"status":"active"`)
	assert.Contains(t, string(b), `"deadline":"2024-06-30"`)

	var back Project
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.Name, back.Name)
	assert.Equal(t, *p.Description, *back.Description)
	assert.Equal(t, *p.ColorCode, *back.ColorCode)
	assert.Equal(t, p.Status, back.Status)
	assert.Equal(t, *p.Deadline, *back.Deadline)
	assert.True(t, p.CreatedAt.Equal(back.CreatedAt))

	var decoded Project
	err = json.Unmarshal([]byte(`{"project_id":"x","status":"bogus"}`), &decoded)
	require.ErrorIs(t, err, common.ErrValidation)
}
