// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/server/migrations"
	"github.com/filedrophq/filedrop/internal/server/repositories/sessions"
	"github.com/filedrophq/filedrop/internal/server/repositories/storeduploads"
	"github.com/filedrophq/filedrop/internal/server/repositories/tempuploads"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// TempUploads returns a tempuploads.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) TempUploads(db dbx.DBTX) tempuploads.Repository {
	return tempuploads.NewPostgresRepository(db)
}

// StoredUploads returns a storeduploads.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) StoredUploads(db dbx.DBTX) storeduploads.Repository {
	return storeduploads.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}
