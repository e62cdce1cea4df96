package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeByProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	web, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)
	api, err := env.projects.Create(ctx, "u-1", "API", nil, nil, nil)
	require.NoError(t, err)

	// 3h on Website, 1h on API
	_, err = env.entries.CreateManual(ctx, "u-1", web.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 12, 0), nil)
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", api.ID,
		at(2024, time.January, 2, 9, 0), at(2024, time.January, 2, 10, 0), nil)
	require.NoError(t, err)

	report, err := env.reports.TimeByProject(ctx, "u-1",
		timex.NewDate(2024, time.January, 1), timex.NewDate(2024, time.January, 7))
	require.NoError(t, err)

	assert.Equal(t, 4.0, report.TotalHours)
	assert.Equal(t, 240, report.TotalMinutes)
	require.Len(t, report.Projects, 2)

	// sorted by hours descending
	assert.Equal(t, "Website", report.Projects[0].ProjectName)
	assert.Equal(t, 3.0, report.Projects[0].Hours)
	assert.Equal(t, 75.0, report.Projects[0].Percentage)
	assert.Equal(t, "API", report.Projects[1].ProjectName)
	assert.Equal(t, 25.0, report.Projects[1].Percentage)
}

func TestDailySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)

	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 10, 30), strPtr("sprint planning"))
	require.NoError(t, err)
	// a different day is excluded
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 2, 9, 0), at(2024, time.January, 2, 10, 0), nil)
	require.NoError(t, err)

	summary, err := env.reports.DailySummary(ctx, "u-1", timex.NewDate(2024, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, 1.5, summary.TotalHours)
	assert.Equal(t, 1, summary.EntryCount)
	require.Len(t, summary.Entries, 1)
	assert.Equal(t, "09:00", summary.Entries[0].StartTime)
	assert.Equal(t, "10:30", summary.Entries[0].EndTime)
	assert.Equal(t, "01:30", summary.Entries[0].Duration)
	assert.Equal(t, "Website", summary.Entries[0].ProjectName)
}

func TestWeeklySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)

	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 10, 0), nil)
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 3, 9, 0), at(2024, time.January, 3, 11, 0), nil)
	require.NoError(t, err)

	summary, err := env.reports.WeeklySummary(ctx, "u-1", timex.NewDate(2024, time.January, 1))
	require.NoError(t, err)

	assert.True(t, summary.WeekEnd.Equal(timex.NewDate(2024, time.January, 7)))
	assert.Equal(t, 3.0, summary.TotalHours)
	assert.Equal(t, 2, summary.EntryCount)
	require.Len(t, summary.DailyBreakdown, 7)
	assert.Equal(t, "Monday", summary.DailyBreakdown[0].DayName)
	assert.Equal(t, 1.0, summary.DailyBreakdown[0].Hours)
	assert.Equal(t, 2.0, summary.DailyBreakdown[2].Hours)
	assert.Equal(t, 0.0, summary.DailyBreakdown[6].Hours)
	require.Len(t, summary.ProjectBreakdown, 1)
	assert.Equal(t, 100.0, summary.ProjectBreakdown[0].Percentage)
}

func TestMonthlySummary_LeapFebruary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)

	// an entry on leap day is inside the month window
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.February, 29, 9, 0), at(2024, time.February, 29, 10, 0), nil)
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.February, 5, 9, 0), at(2024, time.February, 5, 10, 0), nil)
	require.NoError(t, err)
	// March is outside
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.March, 1, 9, 0), at(2024, time.March, 1, 10, 0), nil)
	require.NoError(t, err)

	summary, err := env.reports.MonthlySummary(ctx, "u-1", 2024, time.February)
	require.NoError(t, err)

	assert.Equal(t, "February", summary.MonthName)
	assert.True(t, summary.EndDate.Equal(timex.NewDate(2024, time.February, 29)))
	assert.Equal(t, 2, summary.EntryCount)
	assert.Equal(t, 2.0, summary.TotalHours)

	// weeks are Monday-based and sorted ascending
	require.Len(t, summary.WeeklyBreakdown, 2)
	assert.True(t, summary.WeeklyBreakdown[0].WeekStart.Equal(timex.NewDate(2024, time.February, 5)))
	assert.True(t, summary.WeeklyBreakdown[1].WeekStart.Equal(timex.NewDate(2024, time.February, 26)))
}

func TestProductivityTrends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)

	// two sessions on day 1, one on day 3
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 10, 0), nil)
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 1, 11, 0), at(2024, time.January, 1, 13, 0), nil)
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", p.ID,
		at(2024, time.January, 3, 9, 0), at(2024, time.January, 3, 9, 30), nil)
	require.NoError(t, err)

	trends, err := env.reports.ProductivityTrends(ctx, "u-1",
		timex.NewDate(2024, time.January, 1), timex.NewDate(2024, time.January, 7))
	require.NoError(t, err)

	assert.Equal(t, 7, trends.TotalDays)
	assert.Equal(t, 2, trends.ActiveDays)
	assert.Equal(t, 3, trends.TotalSessions)
	assert.Equal(t, 3.5, trends.TotalHours)
	assert.Equal(t, 0.5, trends.AverageHoursPerDay)
	assert.Equal(t, 1.75, trends.AverageHoursPerActiveDay)
	assert.Equal(t, 2.0, trends.LongestSessionHours)
	assert.Equal(t, 0.5, trends.ShortestSessionHours)
}

func TestProductivityTrends_Empty(t *testing.T) {
	env := newTestEnv(t)

	trends, err := env.reports.ProductivityTrends(context.Background(), "u-1",
		timex.NewDate(2024, time.January, 1), timex.NewDate(2024, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, 31, trends.TotalDays)
	assert.Equal(t, 0, trends.ActiveDays)
	assert.Equal(t, 0.0, trends.TotalHours)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	web, err := env.projects.Create(ctx, "u-1", "Website", nil, nil, nil)
	require.NoError(t, err)
	api, err := env.projects.Create(ctx, "u-1", "API", nil, nil, nil)
	require.NoError(t, err)

	_, err = env.entries.CreateManual(ctx, "u-1", web.ID,
		at(2024, time.January, 1, 9, 0), at(2024, time.January, 1, 10, 0), strPtr("fixing the login bug"))
	require.NoError(t, err)
	_, err = env.entries.CreateManual(ctx, "u-1", api.ID,
		at(2024, time.January, 2, 9, 0), at(2024, time.January, 2, 10, 0), strPtr("deploying"))
	require.NoError(t, err)

	// matches description, case-insensitive
	results, err := env.reports.Search(ctx, "u-1", "LOGIN", SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Website", results[0].ProjectName)

	// matches project name
	results, err = env.reports.Search(ctx, "u-1", "api", SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "API", results[0].ProjectName)

	// empty query returns everything, newest first
	results, err = env.reports.Search(ctx, "u-1", "", SearchFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].StartTime.After(results[1].StartTime))

	// filters narrow the match set
	results, err = env.reports.Search(ctx, "u-1", "", SearchFilter{ProjectID: &web.ID})
	require.NoError(t, err)
	require.Len(t, results, 1)

	from := timex.NewDate(2024, time.January, 2)
	results, err = env.reports.Search(ctx, "u-1", "", SearchFilter{StartDate: &from})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "API", results[0].ProjectName)
}
