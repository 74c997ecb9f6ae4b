package sessions

import (
	"context"

	"github.com/filedrophq/filedrop/internal/server/models"
)

// Repository stores ChunkedUpload session rows.
type Repository interface {
	// Create inserts a new session row.
	Create(ctx context.Context, u *models.ChunkedUpload) error
	// GetByUploadID returns the session or common.ErrorNotFound.
	GetByUploadID(ctx context.Context, uploadID string) (*models.ChunkedUpload, error)
	// AppendChunk persists the state after one accepted chunk. The update
	// only applies while the stored offset still equals prevOffset, so two
	// concurrent writers cannot both apply the same chunk; a lost race
	// returns common.ErrorConflict.
	AppendChunk(ctx context.Context, u *models.ChunkedUpload, prevOffset int64) error
	// Delete removes the session row.
	Delete(ctx context.Context, uploadID string) error
}
