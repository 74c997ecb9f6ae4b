package storeduploads

import (
	"context"
	"sync"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows map[string]models.StoredUpload
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]models.StoredUpload)}
}

func (r *InMemoryRepository) Create(ctx context.Context, u *models.StoredUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.UploadID] = *u
	return nil
}

func (r *InMemoryRepository) GetByUploadID(ctx context.Context, uploadID string) (*models.StoredUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[uploadID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &row, nil
}

func (r *InMemoryRepository) GetByFile(ctx context.Context, file string) (*models.StoredUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.File == file {
			u := row
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
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
