package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/filex"
	"github.com/filedrophq/filedrop/internal/server/chunks"
	"github.com/filedrophq/filedrop/internal/server/models"
	"github.com/filedrophq/filedrop/internal/shortid"
)

// ChunkMeta carries the metadata headers accompanying one chunk request.
// The Has* flags distinguish an absent header from a zero value.
type ChunkMeta struct {
	Offset    int64
	Length    int64
	Name      string
	HasOffset bool
	HasLength bool
	HasName   bool
}

// CreateChunkedUpload opens a new chunked upload session for a declared
// total of totalSize bytes and returns its upload id. The chunk storage
// root must exist and the per-session directory must be creatable strictly
// underneath it.
func (s *Service) CreateChunkedUpload(ctx context.Context, totalSize int64, uploadedBy string) (string, error) {
	if totalSize < 0 {
		return "", fmt.Errorf("negative upload length %d: %w", totalSize, common.ErrorValidation)
	}
	if !filex.DirExists(s.config.ChunkTmpPath) {
		return "", fmt.Errorf("the chunk storage root %s is missing: %w", s.config.ChunkTmpPath, common.ErrorStorageConfig)
	}

	uploadID := shortid.New()
	fileID := shortid.New()

	dir, err := chunks.Dir(s.config.ChunkTmpPath, uploadID)
	if err != nil {
		return "", err
	}
	// Mkdir, not MkdirAll: a directory that already exists for a fresh
	// upload id means something else owns that name.
	if err := os.Mkdir(dir, 0o770); err != nil {
		return "", fmt.Errorf("unable to create the chunk directory for upload %s: %v: %w", uploadID, err, common.ErrorStorageConfig)
	}

	u := &models.ChunkedUpload{
		UploadID:   uploadID,
		FileID:     fileID,
		UploadDir:  uploadID,
		TotalSize:  totalSize,
		UploadedBy: uploadedBy,
	}
	if err := s.repos.Sessions(s.db).Create(ctx, u); err != nil {
		os.RemoveAll(dir)
		return "", err
	}

	s.logger.Info(ctx, "chunked upload session created", "upload_id", uploadID, "total_size", totalSize)
	return uploadID, nil
}

// AppendChunk validates and applies one incoming chunk. Every validation
// failure leaves the session untouched. When the chunk completes the
// declared size, the session is reassembled synchronously; a reassembly
// failure is reported separately from the chunk acceptance itself.
func (s *Service) AppendChunk(ctx context.Context, uploadID string, meta ChunkMeta, body []byte) (*models.ChunkedUpload, error) {
	if uploadID == "" {
		return nil, fmt.Errorf("no chunk upload identifier provided: %w", common.ErrorValidation)
	}

	unlock := s.lockSession(uploadID)
	defer unlock()

	repo := s.repos.Sessions(s.db)
	u, err := repo.GetByUploadID(ctx, uploadID)
	if err != nil {
		return nil, err
	}

	if !meta.HasOffset || !meta.HasLength || !meta.HasName {
		return nil, fmt.Errorf("one of offset, length or name is absent: %w", common.ErrorMissingMetadata)
	}
	if meta.Length != u.TotalSize {
		return nil, fmt.Errorf("declared length %d does not match the session total %d: %w", meta.Length, u.TotalSize, common.ErrorSizeChanged)
	}
	if u.LastChunk > 0 && meta.Name != u.UploadName {
		return nil, fmt.Errorf("name %q does not match the upload name %q: %w", meta.Name, u.UploadName, common.ErrorInvalidFileMeta)
	}
	// Chunks must arrive strictly in order with no gaps or overlaps.
	if meta.Offset != u.Offset {
		return nil, fmt.Errorf("offset %d does not match the session offset %d: %w", meta.Offset, u.Offset, common.ErrorInvalidChunkMeta)
	}
	// An empty chunk is only the legal terminator of an upload whose total
	// is an exact multiple of the client's chunk size.
	if len(body) == 0 && u.Offset != u.TotalSize {
		return nil, fmt.Errorf("an empty chunk is only valid as the final chunk: %w", common.ErrorValidation)
	}
	// The offset never passes total_size.
	if u.Offset+int64(len(body)) > u.TotalSize {
		return nil, fmt.Errorf("chunk of %d bytes at offset %d overruns the declared size of %d bytes: %w",
			len(body), u.Offset, u.TotalSize, common.ErrorValidation)
	}

	dir := filepath.Join(s.config.ChunkTmpPath, u.UploadDir)
	if !filex.DirExists(dir) {
		return nil, fmt.Errorf("the chunk storage directory for upload %s is missing: %w", uploadID, common.ErrorStorageConfig)
	}

	chunkPath := filepath.Join(dir, chunks.FileName(u.FileID, u.LastChunk+1))
	if err := os.WriteFile(chunkPath, body, 0o660); err != nil {
		return nil, fmt.Errorf("unable to write chunk %d for upload %s: %v: %w", u.LastChunk+1, uploadID, err, common.ErrorStorageConfig)
	}

	prevOffset := u.Offset
	u.LastChunk++
	u.Offset += int64(len(body))
	if u.LastChunk == 1 {
		u.UploadName = meta.Name
	}
	if u.Offset == u.TotalSize {
		u.UploadComplete = true
	}

	if err := repo.AppendChunk(ctx, u, prevOffset); err != nil {
		os.Remove(chunkPath)
		return nil, err
	}

	s.logger.Info(ctx, "chunk accepted", "upload_id", uploadID, "chunk", u.LastChunk, "offset", u.Offset)

	if u.UploadComplete {
		if err := s.reassemble(ctx, u); err != nil {
			s.logger.Error(ctx, "reassembly failed", "upload_id", uploadID, "error", err.Error())
			return u, fmt.Errorf("chunked upload %s could not be finalized: %v: %w", uploadID, err, common.ErrorReassembly)
		}
		s.forgetSession(uploadID)
	}

	return u, nil
}

// ChunkedUploadOffset serves a restart/resume query: it returns the offset
// from which the client should continue sending chunks.
func (s *Service) ChunkedUploadOffset(ctx context.Context, uploadID string) (int64, error) {
	u, err := s.repos.Sessions(s.db).GetByUploadID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, fmt.Errorf("invalid upload ID specified: %w", common.ErrorNotFound)
		}
		return 0, err
	}
	// A completed session should already have been reassembled and removed.
	if u.UploadComplete {
		return 0, fmt.Errorf("upload %s is already complete: %w", uploadID, common.ErrorValidation)
	}
	if !filex.DirExists(filepath.Join(s.config.ChunkTmpPath, u.UploadDir)) {
		return 0, fmt.Errorf("the chunk storage directory for upload %s is missing: %w", uploadID, common.ErrorStorageConfig)
	}
	return u.Offset, nil
}

// AbortChunkedUpload deletes an in-progress session and its chunk files.
// It is the inverse of CreateChunkedUpload and is legal at any point
// before completion.
func (s *Service) AbortChunkedUpload(ctx context.Context, uploadID string) error {
	unlock := s.lockSession(uploadID)
	defer unlock()

	u, err := s.repos.Sessions(s.db).GetByUploadID(ctx, uploadID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.config.ChunkTmpPath, u.UploadDir)); err != nil {
		return err
	}
	if err := s.repos.Sessions(s.db).Delete(ctx, uploadID); err != nil {
		return err
	}
	s.forgetSession(uploadID)
	s.logger.Info(ctx, "chunked upload aborted", "upload_id", uploadID)
	return nil
}
