package sessions

import (
	"context"
	"sync"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and by the
// in-memory repository manager. It mirrors the CAS semantics of the
// postgres implementation.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows map[string]models.ChunkedUpload
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]models.ChunkedUpload)}
}

func (r *InMemoryRepository) Create(ctx context.Context, u *models.ChunkedUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.UploadID] = *u
	return nil
}

func (r *InMemoryRepository) GetByUploadID(ctx context.Context, uploadID string) (*models.ChunkedUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[uploadID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (r *InMemoryRepository) AppendChunk(ctx context.Context, u *models.ChunkedUpload, prevOffset int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[u.UploadID]
	if !ok || row.Offset != prevOffset {
		return common.ErrorConflict
	}
	r.rows[u.UploadID] = *u
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, uploadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[uploadID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, uploadID)
	return nil
}
