package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/filex"
	"github.com/filedrophq/filedrop/internal/server/models"
	"github.com/filedrophq/filedrop/internal/shortid"
)

// ProcessUpload stores the content of a single-shot upload into temporary
// storage and records it, returning the new upload id.
func (s *Service) ProcessUpload(ctx context.Context, src ByteSource, uploadedBy string) (string, error) {
	if src.Name() == "" {
		return "", fmt.Errorf("no filename provided with the upload: %w", common.ErrorValidation)
	}
	tu, err := s.saveTemporary(ctx, src, models.UploadTypeFileData, uploadedBy)
	if err != nil {
		return "", err
	}
	s.logger.Info(ctx, "upload processed", "upload_id", tu.UploadID, "name", tu.UploadName)
	return tu.UploadID, nil
}

// GetTempUpload returns the record of a temporary upload.
func (s *Service) GetTempUpload(ctx context.Context, uploadID string) (*models.TemporaryUpload, error) {
	return s.repos.TempUploads(s.db).GetByUploadID(ctx, uploadID)
}

// OpenTempUpload returns the original filename and content of a temporary
// upload. The caller closes the reader.
func (s *Service) OpenTempUpload(ctx context.Context, uploadID string) (string, io.ReadCloser, error) {
	tu, err := s.GetTempUpload(ctx, uploadID)
	if err != nil {
		return "", nil, err
	}
	f, err := os.Open(tu.File)
	if err != nil {
		return "", nil, fmt.Errorf("the temporary upload blob for %s is unreadable: %v: %w", uploadID, err, common.ErrorStorageConfig)
	}
	return tu.UploadName, f, nil
}

// saveTemporary writes the stream to a fresh temporary upload directory
// and records the TemporaryUpload row. On any failure the partially
// written blob is removed.
func (s *Service) saveTemporary(ctx context.Context, src ByteSource, uploadType, uploadedBy string) (*models.TemporaryUpload, error) {
	uploadID := shortid.New()
	fileID := shortid.New()

	destDir := filepath.Join(s.config.UploadTmpPath, uploadID)
	if err := filex.EnsureDir(destDir); err != nil {
		return nil, fmt.Errorf("unable to create the temporary upload directory for %s: %v: %w", uploadID, err, common.ErrorStorageConfig)
	}
	destPath := filepath.Join(destDir, fileID)

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
	if err != nil {
		return nil, fmt.Errorf("unable to create the temporary upload blob for %s: %v: %w", uploadID, err, common.ErrorStorageConfig)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(destPath)
		return nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return nil, err
	}

	tu := &models.TemporaryUpload{
		UploadID:   uploadID,
		FileID:     fileID,
		File:       destPath,
		UploadName: src.Name(),
		UploadType: uploadType,
		Uploaded:   time.Now(),
		UploadedBy: uploadedBy,
	}
	if err := s.repos.TempUploads(s.db).Create(ctx, tu); err != nil {
		os.Remove(destPath)
		return nil, err
	}
	return tu, nil
}
