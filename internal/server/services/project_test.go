package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreate_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)

	_, err = env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	assert.ErrorIs(t, err, common.ErrDuplicateName)

	// same name under a different owner is fine
	_, err = env.projects.Create(ctx, "u-2", "Website", nil, nil, nil)
	require.NoError(t, err)
}

func TestProjectCreate_InvalidColor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.projects.Create(ctx, "u-1", "Website", nil, strPtr("red"), nil)
	assert.ErrorIs(t, err, common.ErrInvalidColor)

	p, err := env.projects.Create(ctx, "u-1", "Website", strPtr("marketing site"), strPtr("#00ff00"), nil)
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", *p.ColorCode)
}

func TestProjectUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)
	_, err = env.projects.Create(ctx, "u-1", "Backend", nil, nil, nil)
	require.NoError(t, err)

	// renaming onto another project's name is rejected
	_, err = env.projects.Update(ctx, p.ID, ProjectPatch{Name: strPtr("Backend")})
	assert.ErrorIs(t, err, common.ErrDuplicateName)

	// renaming to itself is allowed
	_, err = env.projects.Update(ctx, p.ID, ProjectPatch{Name: strPtr("Website")})
	require.NoError(t, err)

	status := models.ProjectStatusCompleted
	deadline := timex.NewDate(2024, time.June, 30)
	updated, err := env.projects.Update(ctx, p.ID, ProjectPatch{
		Name:     strPtr("Website v2"),
		Status:   &status,
		Deadline: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "Website v2", updated.Name)
	assert.Equal(t, models.ProjectStatusCompleted, updated.Status)
	require.NotNil(t, updated.Deadline)
	assert.True(t, updated.Deadline.Equal(deadline))

	_, err = env.projects.Update(ctx, "missing", ProjectPatch{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProjectArchive_RunningTimerScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "P1", nil, nil, nil)
	require.NoError(t, err)
	running, err := env.entries.StartTimer(ctx, "u-1", p.ID, nil)
	require.NoError(t, err)

	_, err = env.projects.Archive(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrActiveTimer)

	_, err = env.entries.StopTimer(ctx, running.ID)
	require.NoError(t, err)

	archived, err := env.projects.Archive(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived())
}

func TestProjectArchive_OtherProjectTimer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1, err := env.projects.Create(ctx, "u-1", "P1", nil, nil, nil)
	require.NoError(t, err)
	p2, err := env.projects.Create(ctx, "u-1", "P2", nil, nil, nil)
	require.NoError(t, err)

	_, err = env.entries.StartTimer(ctx, "u-1", p1.ID, nil)
	require.NoError(t, err)

	// a running timer on another project does not block archiving
	_, err = env.projects.Archive(ctx, p2.ID)
	require.NoError(t, err)
}

func TestProjectDelete_BlockedByEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "P1", nil, nil, nil)
	require.NoError(t, err)
	e, err := env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 10, 0), nil)
	require.NoError(t, err)

	err = env.projects.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrProjectHasEntries)

	require.NoError(t, env.entries.Delete(ctx, e.ID))
	require.NoError(t, env.projects.Delete(ctx, p.ID))

	_, err = env.projects.Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestProjectList_StatusFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.projects.Create(ctx, "u-1", "Active one", nil, nil, nil)
	require.NoError(t, err)
	archived, err := env.projects.Create(ctx, "u-1", "Old one", nil, nil, nil)
	require.NoError(t, err)
	_, err = env.projects.Archive(ctx, archived.ID)
	require.NoError(t, err)

	all, err := env.projects.List(ctx, "u-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := models.ProjectStatusActive
	active, err := env.projects.List(ctx, "u-1", &status)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active one", active[0].Name)
}

func TestProjectTimeSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "P1", nil, nil, nil)
	require.NoError(t, err)

	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 10, 0), nil)
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 10, 9, 0), at(2024, time.January, 10, 9, 30), nil)
	require.NoError(t, err)

	summary, err := env.projects.TimeSummary(ctx, p.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 90, summary.TotalMinutes)
	assert.Equal(t, 1.5, summary.TotalHours)
	assert.Equal(t, 2, summary.EntryCount)

	from := timex.NewDate(2024, time.January, 1)
	to := timex.NewDate(2024, time.January, 7)
	ranged, err := env.projects.TimeSummary(ctx, p.ID, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 60, ranged.TotalMinutes)
	assert.Equal(t, 1, ranged.EntryCount)
}

func TestProjectTimeSummary_OffsetTimesAgreeWithReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "P1", nil, nil, nil)
	require.NoError(t, err)

	// 01:00+03:00 on Jan 1 is 22:00 UTC on Dec 31; the entry belongs to
	// Dec 31 on every query path.
	msk := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2024, time.January, 1, 1, 0, 0, 0, msk)
	end := start.Add(time.Hour)
	e, err := env.entries.CreateManual(ctx, "u-1", p.ID, start, end, nil)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, e.StartTime.Location())
	assert.Equal(t, timex.NewDate(2023, time.December, 31), timex.DateOf(e.StartTime))

	from := timex.NewDate(2024, time.January, 1)
	to := timex.NewDate(2024, time.January, 7)

	summary, err := env.projects.TimeSummary(ctx, p.ID, &from, &to)
	require.NoError(t, err)
	report, err := env.reports.TimeByProject(ctx, "u-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalMinutes)
	assert.Equal(t, 0, report.TotalMinutes)

	from = timex.NewDate(2023, time.December, 31)
	to = timex.NewDate(2024, time.January, 6)

	summary, err = env.projects.TimeSummary(ctx, p.ID, &from, &to)
	require.NoError(t, err)
	report, err = env.reports.TimeByProject(ctx, "u-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, 60, summary.TotalMinutes)
	assert.Equal(t, 60, report.TotalMinutes)
}
