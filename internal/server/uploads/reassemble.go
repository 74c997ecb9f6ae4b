package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/filex"
	"github.com/filedrophq/filedrop/internal/server/chunks"
	"github.com/filedrophq/filedrop/internal/server/models"
)

// reassemble concatenates the chunk files of a completed session into a
// single temporary upload blob, records the temporary upload and removes
// the session. The session row and chunk files are left untouched on any
// failure so the operation can be retried.
func (s *Service) reassemble(ctx context.Context, u *models.ChunkedUpload) error {
	if !u.UploadComplete {
		return fmt.Errorf("upload %s is not ready for reassembly: %w", u.UploadID, common.ErrorInvalidState)
	}

	chunkDir := filepath.Join(s.config.ChunkTmpPath, u.UploadDir)
	for i := 1; i <= u.LastChunk; i++ {
		if !filex.FileExists(filepath.Join(chunkDir, chunks.FileName(u.FileID, i))) {
			return fmt.Errorf("chunk %d of upload %s is missing: %w", i, u.UploadID, common.ErrorNotFound)
		}
	}

	r, err := chunks.NewReader(chunkDir, u.FileID, u.LastChunk, u.TotalSize, u.UploadName)
	if err != nil {
		return err
	}
	if err := r.Open(); err != nil {
		return err
	}
	defer r.Close()

	destDir := filepath.Join(s.config.UploadTmpPath, u.UploadID)
	if err := filex.EnsureDir(destDir); err != nil {
		return fmt.Errorf("unable to create the temporary upload directory for %s: %v: %w", u.UploadID, err, common.ErrorStorageConfig)
	}
	destPath := filepath.Join(destDir, u.FileID)

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o660)
	if err != nil {
		return err
	}

	it, err := r.Chunks(s.config.ChunkReadSize)
	if err != nil {
		out.Close()
		os.Remove(destPath)
		return err
	}
	for {
		block, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			os.Remove(destPath)
			return err
		}
		if _, err := out.Write(block); err != nil {
			out.Close()
			os.Remove(destPath)
			return err
		}
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return err
	}

	fi, err := os.Stat(destPath)
	if err != nil || fi.Size() != u.TotalSize {
		os.Remove(destPath)
		return fmt.Errorf("stored file size wrong or file not found for upload %s: %w", u.UploadID, common.ErrorReassembly)
	}

	tu := &models.TemporaryUpload{
		UploadID:   u.UploadID,
		FileID:     u.FileID,
		File:       destPath,
		UploadName: u.UploadName,
		UploadType: models.UploadTypeFileData,
		Uploaded:   time.Now(),
		UploadedBy: u.UploadedBy,
	}
	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.TempUploads(tx).Create(ctx, tu); err != nil {
			return err
		}
		return s.repos.Sessions(tx).Delete(ctx, u.UploadID)
	})
	if err != nil {
		os.Remove(destPath)
		return err
	}

	if err := os.RemoveAll(chunkDir); err != nil {
		s.logger.Warn(ctx, "unable to remove chunk directory after reassembly",
			"upload_id", u.UploadID, "error", err.Error())
	}

	s.logger.Info(ctx, "upload reassembled", "upload_id", u.UploadID, "size", u.TotalSize)
	return nil
}
