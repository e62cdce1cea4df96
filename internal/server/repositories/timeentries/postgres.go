package timeentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
)

const entryColumns = `entry_id, user_id, project_id, timesheet_id, description,
	start_time, end_time, duration_minutes, is_running, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanEntry(row interface{ Scan(...any) error }) (*models.TimeEntry, error) {
	e := &models.TimeEntry{}
	var end sql.NullTime
	err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.TimesheetID, &e.Description,
		&e.StartTime, &end, &e.DurationMinutes, &e.IsRunning, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// The driver returns timestamps in the session zone; entry times are
	// defined in UTC.
	e.StartTime = e.StartTime.UTC()
	if end.Valid {
		utc := end.Time.UTC()
		e.EndTime = &utc
	}
	return e, nil
}

func (r *PostgresRepository) Add(ctx context.Context, e *models.TimeEntry) error {
	query :=
		`INSERT INTO time_entries (` + entryColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.ProjectID, e.TimesheetID,
		e.Description, e.StartTime, e.EndTime, e.DurationMinutes, e.IsRunning,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE entry_id = $1`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time entry %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE user_id = $1 ORDER BY start_time`
	return r.queryEntries(ctx, query, userID)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE project_id = $1 ORDER BY start_time`
	return r.queryEntries(ctx, query, projectID)
}

func (r *PostgresRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.TimeEntry, error) {
	query :=
		`SELECT ` + entryColumns + ` FROM time_entries
		 WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		 ORDER BY start_time
		 `
	return r.queryEntries(ctx, query, userID, from, to)
}

func (r *PostgresRepository) GetRunning(ctx context.Context, userID string) (*models.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE user_id = $1 AND is_running`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("running timer for user %s: %w", userID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	// half-open intervals, so touching boundaries do not conflict
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM time_entries
		   WHERE user_id = $1 AND entry_id <> $2 AND end_time IS NOT NULL
		     AND start_time < $4 AND end_time > $3
		 )
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, excludeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.TimeEntry) error {
	query :=
		`UPDATE time_entries
		 SET project_id = $2, timesheet_id = $3, description = $4, start_time = $5,
		     end_time = $6, duration_minutes = $7, is_running = $8, updated_at = $9
		 WHERE entry_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, e.ID, e.ProjectID, e.TimesheetID,
		e.Description, e.StartTime, e.EndTime, e.DurationMinutes, e.IsRunning, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("time entry %s: %w", e.ID, common.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM time_entries WHERE entry_id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("time entry %s: %w", id, common.ErrNotFound)
	}
	return nil
}
