package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timekeeper/internal/common"
	"github.com/dmitrijs2005/timekeeper/internal/dbx"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var hash sql.NullString
	var prefs []byte
	err := row.Scan(&u.ID, &u.Username, &u.Email, &hash, &prefs, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	u.Preferences = map[string]any{}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	return u, nil
}

func encodePrefs(u *models.User) ([]byte, error) {
	prefs := u.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	return json.Marshal(prefs)
}

func (r *PostgresRepository) Add(ctx context.Context, u *models.User) error {
	prefs, err := encodePrefs(u)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO users (user_id, username, email, password_hash, preferences, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err = r.db.ExecContext(ctx, query, u.ID, u.Username, u.Email,
		u.PasswordHash, prefs, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrDuplicateUsername
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT user_id, username, email, password_hash, preferences, created_at, updated_at
		 FROM users
		 WHERE user_id = $1
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT user_id, username, email, password_hash, preferences, created_at, updated_at
		 FROM users
		 WHERE username = $1
		 `

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Update(ctx context.Context, u *models.User) error {
	prefs, err := encodePrefs(u)
	if err != nil {
		return err
	}

	query :=
		`UPDATE users
		 SET username = $2, email = $3, password_hash = $4, preferences = $5, updated_at = $6
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Email,
		u.PasswordHash, prefs, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", u.ID, common.ErrNotFound)
	}
	return nil
}
