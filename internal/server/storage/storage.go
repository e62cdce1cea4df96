// Package storage wires the repository set for the selected backend: flat
// JSON collection files for standalone use, or PostgreSQL with embedded goose
// migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/timekeeper/internal/server/migrations"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/projects"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timeentries"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/timesheets"
	"github.com/dmitrijs2005/timekeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Repositories bundles one repository per entity. All four always share the
// same backend.
type Repositories struct {
	Users       users.Repository
	Projects    projects.Repository
	TimeEntries timeentries.Repository
	Timesheets  timesheets.Repository

	// DB is the underlying connection for the PostgreSQL backend, nil for
	// the JSON backend.
	DB *sql.DB
}

// Close releases the underlying database connection, if any.
func (r *Repositories) Close() error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// NewJSONRepositories builds the file-backed repository set rooted at dataDir.
func NewJSONRepositories(dataDir string) *Repositories {
	return &Repositories{
		Users:       users.NewJSONRepository(dataDir),
		Projects:    projects.NewJSONRepository(dataDir),
		TimeEntries: timeentries.NewJSONRepository(dataDir),
		Timesheets:  timesheets.NewJSONRepository(dataDir),
	}
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// NewPostgresRepositories opens the database, applies migrations and builds
// the PostgreSQL-backed repository set.
func NewPostgresRepositories(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repositories{
		Users:       users.NewPostgresRepository(db),
		Projects:    projects.NewPostgresRepository(db),
		TimeEntries: timeentries.NewPostgresRepository(db),
		Timesheets:  timesheets.NewPostgresRepository(db),
		DB:          db,
	}, nil
}
