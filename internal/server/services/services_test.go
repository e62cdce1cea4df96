package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/storage"
)

// testEnv bundles all services over a throwaway JSON-file backend.
type testEnv struct {
	repos      *storage.Repositories
	projects   *ProjectService
	entries    *TimeEntryService
	timesheets *TimesheetService
	users      *UserService
	reports    *ReportingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := storage.NewJSONRepositories(t.TempDir())
	return &testEnv{
		repos:      repos,
		projects:   NewProjectService(repos.Projects, repos.TimeEntries),
		entries:    NewTimeEntryService(repos.TimeEntries, repos.Projects, repos.Timesheets),
		timesheets: NewTimesheetService(repos.Timesheets, repos.TimeEntries),
		users:      NewUserService(repos.Users, []byte("test-secret"), time.Hour),
		reports:    NewReportingService(repos.TimeEntries, repos.Projects),
	}
}

func strPtr(s string) *string { return &s }

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
