package timeentries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timekeeper/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresGetRunning_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+FROM\s+time_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+is_running\s*$`
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRunning(context.Background(), "u-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresGetRunning_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	cols := []string{"entry_id", "user_id", "project_id", "timesheet_id", "description",
		"start_time", "end_time", "duration_minutes", "is_running", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("e-1", "u-1", "p-1", nil, "writing docs", now, nil, 0, true, now, now)

	q := `(?s)^SELECT\s+.+FROM\s+time_entries\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+is_running\s*$`
	mock.ExpectQuery(q).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.GetRunning(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetRunning error: %v", err)
	}
	if !got.IsRunning || got.EndTime != nil {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.Description == nil || *got.Description != "writing docs" {
		t.Fatalf("unexpected description: %v", got.Description)
	}
}

func TestPostgresHasOverlap(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	q := `(?s)^SELECT\s+EXISTS\s*\(.+FROM\s+time_entries.+end_time\s+IS\s+NOT\s+NULL.+\)\s*$`
	mock.ExpectQuery(q).WithArgs("u-1", "", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overlap, err := repo.HasOverlap(context.Background(), "u-1", start, end, "")
	if err != nil {
		t.Fatalf("HasOverlap error: %v", err)
	}
	if !overlap {
		t.Fatal("expected overlap=true")
	}
}

func TestPostgresDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+time_entries\s+WHERE\s+entry_id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
