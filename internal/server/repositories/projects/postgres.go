package projects

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func deadlineParam(p *models.Project) any {
	if p.Deadline == nil {
		return nil
	}
	return p.Deadline.Time()
}

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	var status string
	var deadline sql.NullTime
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.ColorCode,
		&status, &deadline, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := models.ParseProjectStatus(status)
	if err != nil {
		return nil, err
	}
	p.Status = parsed
	if deadline.Valid {
		d := timex.DateOf(deadline.Time)
		p.Deadline = &d
	}
	return p, nil
}

func (r *PostgresRepository) Add(ctx context.Context, p *models.Project) error {
	query :=
		`INSERT INTO projects (project_id, user_id, name, description, color_code, status, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Name, p.Description,
		p.ColorCode, string(p.Status), deadlineParam(p), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query :=
		`SELECT project_id, user_id, name, description, color_code, status, deadline, created_at, updated_at
		 FROM projects
		 WHERE project_id = $1
		 `

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	query :=
		`SELECT project_id, user_id, name, description, color_code, status, deadline, created_at, updated_at
		 FROM projects
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ExistsWithName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM projects
		   WHERE user_id = $1 AND name = $2 AND project_id <> $3
		 )
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Project) error {
	query :=
		`UPDATE projects
		 SET name = $2, description = $3, color_code = $4, status = $5, deadline = $6, updated_at = $7
		 WHERE project_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description,
		p.ColorCode, string(p.Status), deadlineParam(p), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", p.ID, common.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE project_id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, common.ErrNotFound)
	}
	return nil
}
