package repomanager

import (
	"context"
	"database/sql"

	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/server/repositories/sessions"
	"github.com/filedrophq/filedrop/internal/server/repositories/storeduploads"
	"github.com/filedrophq/filedrop/internal/server/repositories/tempuploads"
)

// RepositoryManager vends the metadata repositories. Repositories are bound
// to a DBTX per call so the same manager serves plain connections and
// transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Sessions(db dbx.DBTX) sessions.Repository
	TempUploads(db dbx.DBTX) tempuploads.Repository
	StoredUploads(db dbx.DBTX) storeduploads.Repository
}
