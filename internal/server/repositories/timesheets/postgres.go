package timesheets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

const sheetColumns = `timesheet_id, user_id, name, period_type, start_date,
	end_date, status, total_hours, created_at, updated_at`

// PostgresRepository stores timesheets in the timesheets table and membership
// in the timesheet_entries join table. Writes that touch both run inside a
// transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanSheet(row interface{ Scan(...any) error }) (*models.Timesheet, error) {
	t := &models.Timesheet{}
	var periodType, status string
	var start, end sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &periodType, &start, &end,
		&status, &t.TotalHours, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	pt, err := models.ParsePeriodType(periodType)
	if err != nil {
		return nil, err
	}
	st, err := models.ParseTimesheetStatus(status)
	if err != nil {
		return nil, err
	}
	t.PeriodType = pt
	t.Status = st
	t.StartDate = timex.DateOf(start.Time)
	t.EndDate = timex.DateOf(end.Time)
	t.EntryIDs = []string{}
	return t, nil
}

func (r *PostgresRepository) loadEntryIDs(ctx context.Context, db dbx.DBTX, sheetID string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT entry_id FROM timesheet_entries WHERE timesheet_id = $1 ORDER BY position`, sheetID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) saveEntryIDs(ctx context.Context, tx dbx.DBTX, t *models.Timesheet) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM timesheet_entries WHERE timesheet_id = $1`, t.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	for i, entryID := range t.EntryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timesheet_entries (timesheet_id, entry_id, position) VALUES ($1, $2, $3)`,
			t.ID, entryID, i); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Add(ctx context.Context, t *models.Timesheet) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO timesheets (` + sheetColumns + `)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 `

		_, err := tx.ExecContext(ctx, query, t.ID, t.UserID, t.Name, string(t.PeriodType),
			t.StartDate.Time(), t.EndDate.Time(), string(t.Status), t.TotalHours,
			t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return r.saveEntryIDs(ctx, tx, t)
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Timesheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM timesheets WHERE timesheet_id = $1`

	t, err := scanSheet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("timesheet %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if t.EntryIDs, err = r.loadEntryIDs(ctx, r.db, id); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Timesheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM timesheets WHERE user_id = $1 ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Timesheet{}
	for rows.Next() {
		t, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	for _, t := range result {
		if t.EntryIDs, err = r.loadEntryIDs(ctx, r.db, t.ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PostgresRepository) HasPeriodOverlap(ctx context.Context, userID string, start, end timex.Date, excludeID string) (bool, error) {
	// inclusive bounds, so sheets sharing a boundary date conflict
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM timesheets
		   WHERE user_id = $1 AND timesheet_id <> $2
		     AND start_date <= $4 AND end_date >= $3
		 )
		 `

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, excludeID, start.Time(), end.Time()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.Timesheet) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`UPDATE timesheets
			 SET name = $2, period_type = $3, start_date = $4, end_date = $5,
			     status = $6, total_hours = $7, updated_at = $8
			 WHERE timesheet_id = $1
			 `

		res, err := tx.ExecContext(ctx, query, t.ID, t.Name, string(t.PeriodType),
			t.StartDate.Time(), t.EndDate.Time(), string(t.Status), t.TotalHours, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("timesheet %s: %w", t.ID, common.ErrNotFound)
		}
		return r.saveEntryIDs(ctx, tx, t)
	})
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM timesheet_entries WHERE timesheet_id = $1`, id); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM timesheets WHERE timesheet_id = $1`, id)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("timesheet %s: %w", id, common.ErrNotFound)
		}
		return nil
	})
}
