package repomanager

import (
	"context"
	"database/sql"

	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/server/repositories/sessions"
	"github.com/filedrophq/filedrop/internal/server/repositories/storeduploads"
	"github.com/filedrophq/filedrop/internal/server/repositories/tempuploads"
)

// InMemoryRepositoryManager serves map-backed repositories. The DBTX
// argument is ignored; the same repository instances back every call so
// state is shared across transactions the way a database would share it.
type InMemoryRepositoryManager struct {
	sessions      *sessions.InMemoryRepository
	tempUploads   *tempuploads.InMemoryRepository
	storedUploads *storeduploads.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		sessions:      sessions.NewInMemoryRepository(),
		tempUploads:   tempuploads.NewInMemoryRepository(),
		storedUploads: storeduploads.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return m.sessions
}

func (m *InMemoryRepositoryManager) TempUploads(db dbx.DBTX) tempuploads.Repository {
	return m.tempUploads
}

func (m *InMemoryRepositoryManager) StoredUploads(db dbx.DBTX) storeduploads.Repository {
	return m.storedUploads
}
