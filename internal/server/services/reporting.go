package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/projects"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// ProjectTime is one project's share of a report window.
type ProjectTime struct {
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Hours       float64 `json:"hours"`
	Minutes     int     `json:"minutes"`
	Percentage  float64 `json:"percentage"`
}

// TimeByProjectReport is the per-project time distribution over a window.
type TimeByProjectReport struct {
	Projects     []ProjectTime `json:"projects"`
	TotalHours   float64       `json:"total_hours"`
	TotalMinutes int           `json:"total_minutes"`
	StartDate    timex.Date    `json:"start_date"`
	EndDate      timex.Date    `json:"end_date"`
}

// DailyEntry is one entry line of a daily summary.
type DailyEntry struct {
	EntryID         string  `json:"entry_id"`
	ProjectID       string  `json:"project_id"`
	ProjectName     string  `json:"project_name"`
	Description     *string `json:"description"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Duration        string  `json:"duration"`
	DurationMinutes int     `json:"duration_minutes"`
	IsRunning       bool    `json:"is_running"`
}

// DailySummary is one day's entries with totals.
type DailySummary struct {
	Date         timex.Date   `json:"date"`
	TotalHours   float64      `json:"total_hours"`
	TotalMinutes int          `json:"total_minutes"`
	EntryCount   int          `json:"entry_count"`
	Entries      []DailyEntry `json:"entries"`
}

// DayTotal is one day of a weekly breakdown.
type DayTotal struct {
	Date    timex.Date `json:"date"`
	DayName string     `json:"day_name"`
	Hours   float64    `json:"hours"`
	Minutes int        `json:"minutes"`
}

// WeeklySummary covers a 7-day window starting at a given date.
type WeeklySummary struct {
	WeekStart        timex.Date    `json:"week_start"`
	WeekEnd          timex.Date    `json:"week_end"`
	TotalHours       float64       `json:"total_hours"`
	TotalMinutes     int           `json:"total_minutes"`
	EntryCount       int           `json:"entry_count"`
	DailyBreakdown   []DayTotal    `json:"daily_breakdown"`
	ProjectBreakdown []ProjectTime `json:"project_breakdown"`
}

// WeekTotal is one Monday-based week of a monthly breakdown.
type WeekTotal struct {
	WeekStart timex.Date `json:"week_start"`
	WeekEnd   timex.Date `json:"week_end"`
	Hours     float64    `json:"hours"`
	Minutes   int        `json:"minutes"`
}

// MonthlySummary covers an exact calendar month.
type MonthlySummary struct {
	Year             int           `json:"year"`
	Month            int           `json:"month"`
	MonthName        string        `json:"month_name"`
	StartDate        timex.Date    `json:"start_date"`
	EndDate          timex.Date    `json:"end_date"`
	TotalHours       float64       `json:"total_hours"`
	TotalMinutes     int           `json:"total_minutes"`
	EntryCount       int           `json:"entry_count"`
	WeeklyBreakdown  []WeekTotal   `json:"weekly_breakdown"`
	ProjectBreakdown []ProjectTime `json:"project_breakdown"`
}

// ProductivityTrends aggregates activity metrics over a window.
type ProductivityTrends struct {
	StartDate                timex.Date `json:"start_date"`
	EndDate                  timex.Date `json:"end_date"`
	TotalDays                int        `json:"total_days"`
	ActiveDays               int        `json:"active_days"`
	AverageHoursPerDay       float64    `json:"average_hours_per_day"`
	AverageHoursPerActiveDay float64    `json:"average_hours_per_active_day"`
	LongestSessionHours      float64    `json:"longest_session_hours"`
	ShortestSessionHours     float64    `json:"shortest_session_hours"`
	TotalSessions            int        `json:"total_sessions"`
	TotalHours               float64    `json:"total_hours"`
}

// SearchFilter narrows a search beyond the free-text query.
type SearchFilter struct {
	ProjectID *string
	StartDate *timex.Date
	EndDate   *timex.Date
}

// SearchResult is one entry matched by Search.
type SearchResult struct {
	EntryID         string     `json:"entry_id"`
	ProjectID       string     `json:"project_id"`
	ProjectName     string     `json:"project_name"`
	Description     *string    `json:"description"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Duration        string     `json:"duration"`
	DurationMinutes int        `json:"duration_minutes"`
	Date            timex.Date `json:"date"`
}

// ReportingService produces read-only rollups over entries and projects.
type ReportingService struct {
	entries  timeentries.Repository
	projects projects.Repository
}

func NewReportingService(entries timeentries.Repository, projects projects.Repository) *ReportingService {
	return &ReportingService{entries: entries, projects: projects}
}

func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60.0*100) / 100
}

func roundPercent(minutes, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(minutes)/float64(total)*100*10) / 10
}

func (s *ReportingService) projectNames(ctx context.Context, userID string) (map[string]string, error) {
	all, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	for _, p := range all {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (s *ReportingService) entriesInRange(ctx context.Context, userID string, from, to timex.Date) ([]*models.TimeEntry, error) {
	return s.entries.ListByUserBetween(ctx, userID, from.Time(), to.AddDays(1).Time())
}

// byProjectAccumulator groups minutes per project preserving first-encounter
// order, so equal-hour groups keep a stable position after sorting.
type byProjectAccumulator struct {
	order   []string
	minutes map[string]int
}

func newByProjectAccumulator() *byProjectAccumulator {
	return &byProjectAccumulator{minutes: map[string]int{}}
}

func (a *byProjectAccumulator) add(projectID string, minutes int) {
	if _, seen := a.minutes[projectID]; !seen {
		a.order = append(a.order, projectID)
	}
	a.minutes[projectID] += minutes
}

func (a *byProjectAccumulator) breakdown(names map[string]string) ([]ProjectTime, int) {
	total := 0
	for _, m := range a.minutes {
		total += m
	}

	result := []ProjectTime{}
	for _, projectID := range a.order {
		name, ok := names[projectID]
		if !ok {
			name = "Unknown Project"
		}
		m := a.minutes[projectID]
		result = append(result, ProjectTime{
			ProjectID:   projectID,
			ProjectName: name,
			Hours:       roundHours(m),
			Minutes:     m,
			Percentage:  roundPercent(m, total),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Hours > result[j].Hours })
	return result, total
}

// TimeByProject reports the time distribution by project over an inclusive
// date range, sorted by hours descending.
func (s *ReportingService) TimeByProject(ctx context.Context, userID string, from, to timex.Date) (*TimeByProjectReport, error) {
	entries, err := s.entriesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	names, err := s.projectNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	acc := newByProjectAccumulator()
	for _, e := range entries {
		acc.add(e.ProjectID, e.DurationMinutes)
	}
	breakdown, total := acc.breakdown(names)

	return &TimeByProjectReport{
		Projects:     breakdown,
		TotalHours:   roundHours(total),
		TotalMinutes: total,
		StartDate:    from,
		EndDate:      to,
	}, nil
}

// DailySummary reports one day's entries with per-entry detail.
func (s *ReportingService) DailySummary(ctx context.Context, userID string, day timex.Date) (*DailySummary, error) {
	entries, err := s.entriesInRange(ctx, userID, day, day)
	if err != nil {
		return nil, err
	}
	names, err := s.projectNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	details := []DailyEntry{}
	for _, e := range entries {
		total += e.DurationMinutes

		name, ok := names[e.ProjectID]
		if !ok {
			name = "Unknown"
		}
		endTime := "Running"
		if e.EndTime != nil {
			endTime = e.EndTime.Format("15:04")
		}
		details = append(details, DailyEntry{
			EntryID:         e.ID,
			ProjectID:       e.ProjectID,
			ProjectName:     name,
			Description:     e.Description,
			StartTime:       e.StartTime.Format("15:04"),
			EndTime:         endTime,
			Duration:        e.DurationFormatted(),
			DurationMinutes: e.DurationMinutes,
			IsRunning:       e.IsRunning,
		})
	}

	return &DailySummary{
		Date:         day,
		TotalHours:   roundHours(total),
		TotalMinutes: total,
		EntryCount:   len(entries),
		Entries:      details,
	}, nil
}

// WeeklySummary reports the 7-day window starting at weekStart, with daily
// and per-project breakdowns.
func (s *ReportingService) WeeklySummary(ctx context.Context, userID string, weekStart timex.Date) (*WeeklySummary, error) {
	weekEnd := weekStart.AddDays(6)
	entries, err := s.entriesInRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	names, err := s.projectNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	dailyMinutes := map[timex.Date]int{}
	acc := newByProjectAccumulator()
	for _, e := range entries {
		dailyMinutes[timex.DateOf(e.StartTime)] += e.DurationMinutes
		acc.add(e.ProjectID, e.DurationMinutes)
	}

	days := []DayTotal{}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDays(i)
		m := dailyMinutes[day]
		days = append(days, DayTotal{
			Date:    day,
			DayName: day.Format("Monday"),
			Hours:   roundHours(m),
			Minutes: m,
		})
	}

	breakdown, total := acc.breakdown(names)

	return &WeeklySummary{
		WeekStart:        weekStart,
		WeekEnd:          weekEnd,
		TotalHours:       roundHours(total),
		TotalMinutes:     total,
		EntryCount:       len(entries),
		DailyBreakdown:   days,
		ProjectBreakdown: breakdown,
	}, nil
}

// MonthlySummary reports an exact calendar month with Monday-based weekly
// and per-project breakdowns.
func (s *ReportingService) MonthlySummary(ctx context.Context, userID string, year int, month time.Month) (*MonthlySummary, error) {
	start, end := timex.MonthRange(year, month)
	entries, err := s.entriesInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	names, err := s.projectNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	weeklyMinutes := map[timex.Date]int{}
	acc := newByProjectAccumulator()
	for _, e := range entries {
		weekStart := timex.WeekStart(timex.DateOf(e.StartTime))
		weeklyMinutes[weekStart] += e.DurationMinutes
		acc.add(e.ProjectID, e.DurationMinutes)
	}

	weekStarts := make([]timex.Date, 0, len(weeklyMinutes))
	for w := range weeklyMinutes {
		weekStarts = append(weekStarts, w)
	}
	sort.Slice(weekStarts, func(i, j int) bool { return weekStarts[i].Before(weekStarts[j]) })

	weeks := []WeekTotal{}
	for _, w := range weekStarts {
		m := weeklyMinutes[w]
		weeks = append(weeks, WeekTotal{
			WeekStart: w,
			WeekEnd:   w.AddDays(6),
			Hours:     roundHours(m),
			Minutes:   m,
		})
	}

	breakdown, total := acc.breakdown(names)

	return &MonthlySummary{
		Year:             year,
		Month:            int(month),
		MonthName:        start.Format("January"),
		StartDate:        start,
		EndDate:          end,
		TotalHours:       roundHours(total),
		TotalMinutes:     total,
		EntryCount:       len(entries),
		WeeklyBreakdown:  weeks,
		ProjectBreakdown: breakdown,
	}, nil
}

// ProductivityTrends reports activity metrics for an inclusive date range.
func (s *ReportingService) ProductivityTrends(ctx context.Context, userID string, from, to timex.Date) (*ProductivityTrends, error) {
	entries, err := s.entriesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	totalDays := from.DaysUntil(to) + 1
	trends := &ProductivityTrends{
		StartDate: from,
		EndDate:   to,
		TotalDays: totalDays,
	}
	if len(entries) == 0 {
		return trends, nil
	}

	dailyMinutes := map[timex.Date]int{}
	sessions := []int{}
	for _, e := range entries {
		dailyMinutes[timex.DateOf(e.StartTime)] += e.DurationMinutes
		if e.DurationMinutes > 0 {
			sessions = append(sessions, e.DurationMinutes)
		}
	}

	total := 0
	for _, m := range dailyMinutes {
		total += m
	}

	trends.ActiveDays = len(dailyMinutes)
	trends.TotalSessions = len(sessions)
	trends.TotalHours = roundHours(total)
	trends.AverageHoursPerDay = math.Round(float64(total)/60.0/float64(totalDays)*100) / 100
	trends.AverageHoursPerActiveDay = math.Round(float64(total)/60.0/float64(trends.ActiveDays)*100) / 100

	longest, shortest := 0, 0
	for i, m := range sessions {
		if i == 0 || m > longest {
			longest = m
		}
		if i == 0 || m < shortest {
			shortest = m
		}
	}
	trends.LongestSessionHours = roundHours(longest)
	trends.ShortestSessionHours = roundHours(shortest)

	return trends, nil
}

// Search matches the query as a case-insensitive substring against entry
// descriptions and resolved project names, applies the filter, and returns
// results sorted by start time descending. An empty query matches
// everything.
func (s *ReportingService) Search(ctx context.Context, userID, query string, filter SearchFilter) ([]SearchResult, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names, err := s.projectNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := []SearchResult{}
	for _, e := range entries {
		name := names[e.ProjectID]

		descriptionMatch := q == "" || (e.Description != nil && strings.Contains(strings.ToLower(*e.Description), q))
		projectMatch := q == "" || strings.Contains(strings.ToLower(name), q)
		if !descriptionMatch && !projectMatch {
			continue
		}

		entryDate := timex.DateOf(e.StartTime)
		if filter.ProjectID != nil && e.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.StartDate != nil && entryDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entryDate.After(*filter.EndDate) {
			continue
		}

		results = append(results, SearchResult{
			EntryID:         e.ID,
			ProjectID:       e.ProjectID,
			ProjectName:     name,
			Description:     e.Description,
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			Duration:        e.DurationFormatted(),
			DurationMinutes: e.DurationMinutes,
			Date:            entryDate,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].StartTime.After(results[j].StartTime) })
	return results, nil
}
