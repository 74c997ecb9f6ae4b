package tempuploads

import (
	"context"

	"github.com/filedrophq/filedrop/internal/server/models"
)

// Repository stores TemporaryUpload rows.
type Repository interface {
	Create(ctx context.Context, u *models.TemporaryUpload) error
	// GetByUploadID returns the record or common.ErrorNotFound.
	GetByUploadID(ctx context.Context, uploadID string) (*models.TemporaryUpload, error)
	Delete(ctx context.Context, uploadID string) error
}
