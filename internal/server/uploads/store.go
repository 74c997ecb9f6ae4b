package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/server/models"
	"github.com/filedrophq/filedrop/internal/shortid"
)

// StoreUpload promotes a temporary upload to permanent storage under
// destPath and records the promotion. A destPath ending in a slash is
// treated as a directory and completed with the original upload name.
func (s *Service) StoreUpload(ctx context.Context, uploadID, destPath string) (*models.StoredUpload, error) {
	if !shortid.Valid(uploadID) {
		return nil, fmt.Errorf("the provided upload ID is of an invalid format: %w", common.ErrorValidation)
	}
	if destPath == "" {
		return nil, fmt.Errorf("no destination path provided: %w", common.ErrorValidation)
	}

	tu, err := s.repos.TempUploads(s.db).GetByUploadID(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(destPath, "/") {
		destPath += tu.UploadName
	}
	key := strings.TrimPrefix(destPath, "/")

	exists, err := s.sink.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("a file already exists at %s: %w", key, common.ErrorFileExists)
	}

	src, err := os.Open(tu.File)
	if err != nil {
		return nil, fmt.Errorf("the temporary upload blob for %s is unreadable: %v: %w", uploadID, err, common.ErrorStorageConfig)
	}
	defer src.Close()

	if err := s.sink.Save(ctx, key, src); err != nil {
		return nil, err
	}

	su := &models.StoredUpload{
		UploadID:   tu.UploadID,
		File:       key,
		Uploaded:   tu.Uploaded,
		Stored:     time.Now(),
		UploadedBy: tu.UploadedBy,
	}
	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.StoredUploads(tx).Create(ctx, su); err != nil {
			return err
		}
		return s.repos.TempUploads(tx).Delete(ctx, uploadID)
	})
	if err != nil {
		// The blob made it to permanent storage but the bookkeeping did
		// not; remove the blob so a retry starts clean.
		if derr := s.sink.Delete(ctx, key); derr != nil {
			s.logger.Error(ctx, "unable to roll back stored blob",
				"upload_id", uploadID, "key", key, "error", derr.Error())
		}
		return nil, err
	}

	s.removeTempBlob(ctx, tu)
	s.logger.Info(ctx, "upload stored", "upload_id", uploadID, "file", key)
	return su, nil
}

// GetStoredUpload resolves a stored upload either by its upload id or,
// failing that, by its storage path.
func (s *Service) GetStoredUpload(ctx context.Context, id string) (*models.StoredUpload, error) {
	su, err := s.repos.StoredUploads(s.db).GetByUploadID(ctx, id)
	if err == nil {
		return su, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return s.repos.StoredUploads(s.db).GetByFile(ctx, strings.TrimPrefix(id, "/"))
}

// OpenStoredUpload returns the filename and content of a stored upload
// for serving back to a client. The caller closes the reader.
func (s *Service) OpenStoredUpload(ctx context.Context, id string) (string, io.ReadCloser, error) {
	su, err := s.GetStoredUpload(ctx, id)
	if err != nil {
		return "", nil, err
	}
	rc, err := s.sink.Open(ctx, su.File)
	if err != nil {
		return "", nil, err
	}
	return path.Base(su.File), rc, nil
}

// DeleteStoredUpload removes the promotion record and, when deleteFile is
// set, the stored blob itself.
func (s *Service) DeleteStoredUpload(ctx context.Context, id string, deleteFile bool) error {
	su, err := s.GetStoredUpload(ctx, id)
	if err != nil {
		return err
	}
	if deleteFile {
		if err := s.sink.Delete(ctx, su.File); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
	}
	if err := s.repos.StoredUploads(s.db).Delete(ctx, su.UploadID); err != nil {
		return err
	}
	s.logger.Info(ctx, "stored upload deleted", "upload_id", su.UploadID, "file", su.File)
	return nil
}

// DeleteTempUpload reverts a temporary upload: the blob is removed first,
// then the record. A blob deletion failure leaves the record in place so
// the revert can be retried.
func (s *Service) DeleteTempUpload(ctx context.Context, uploadID string) error {
	if !shortid.Valid(uploadID) {
		return fmt.Errorf("the provided upload ID is of an invalid format: %w", common.ErrorValidation)
	}
	tu, err := s.repos.TempUploads(s.db).GetByUploadID(ctx, uploadID)
	if err != nil {
		return err
	}
	if err := os.Remove(tu.File); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to remove the temporary upload blob for %s: %v: %w", uploadID, err, common.ErrorStorageConfig)
	}
	if s.config.DeleteUploadTmpDirs {
		os.Remove(filepath.Dir(tu.File))
	}
	if err := s.repos.TempUploads(s.db).Delete(ctx, uploadID); err != nil {
		return err
	}
	s.logger.Info(ctx, "temporary upload reverted", "upload_id", uploadID)
	return nil
}

// removeTempBlob deletes a temporary upload's blob after a successful
// promotion. Failures are logged, not returned: the promotion already
// happened and must not be reported as failed.
func (s *Service) removeTempBlob(ctx context.Context, tu *models.TemporaryUpload) {
	if err := os.Remove(tu.File); err != nil && !os.IsNotExist(err) {
		s.logger.Warn(ctx, "unable to remove temporary upload blob",
			"upload_id", tu.UploadID, "error", err.Error())
		return
	}
	if s.config.DeleteUploadTmpDirs {
		os.Remove(filepath.Dir(tu.File))
	}
}
