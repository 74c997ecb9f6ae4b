package storeduploads

import (
	"context"

	"github.com/filedrophq/filedrop/internal/server/models"
)

// Repository stores StoredUpload rows.
type Repository interface {
	Create(ctx context.Context, u *models.StoredUpload) error
	// GetByUploadID returns the record or common.ErrorNotFound.
	GetByUploadID(ctx context.Context, uploadID string) (*models.StoredUpload, error)
	// GetByFile looks a record up by its stored file path. Kept for
	// compatibility with callers that pass a path instead of an upload id;
	// the id lookup is the supported interface.
	GetByFile(ctx context.Context, file string) (*models.StoredUpload, error)
	Delete(ctx context.Context, uploadID string) error
}
