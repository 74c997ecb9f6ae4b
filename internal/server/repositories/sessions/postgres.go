package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/server/models"
)

// PostgresRepository implements session storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the session row for a freshly opened chunked upload.
func (r *PostgresRepository) Create(ctx context.Context, u *models.ChunkedUpload) error {
	query := `
		INSERT INTO chunked_uploads
			(upload_id, file_id, upload_dir, upload_name, last_chunk, "offset", total_size, upload_complete, last_upload_time, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), $9);
	`
	_, err := r.db.ExecContext(ctx, query,
		u.UploadID, u.FileID, u.UploadDir, u.UploadName, u.LastChunk, u.Offset, u.TotalSize, u.UploadComplete,
		nullable(u.UploadedBy))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByUploadID returns the session row for uploadID.
func (r *PostgresRepository) GetByUploadID(ctx context.Context, uploadID string) (*models.ChunkedUpload, error) {
	query := `
		SELECT upload_id, file_id, upload_dir, upload_name, last_chunk, "offset", total_size, upload_complete, last_upload_time, uploaded_by
		FROM chunked_uploads WHERE upload_id=$1;
	`
	u := &models.ChunkedUpload{}
	var uploadedBy sql.NullString
	err := r.db.QueryRowContext(ctx, query, uploadID).Scan(
		&u.UploadID, &u.FileID, &u.UploadDir, &u.UploadName, &u.LastChunk, &u.Offset, &u.TotalSize,
		&u.UploadComplete, &u.LastUploadTime, &uploadedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.UploadedBy = uploadedBy.String
	return u, nil
}

// AppendChunk applies the post-chunk state with a compare-and-swap on the
// stored offset. Returns common.ErrorConflict when the row moved on since
// prevOffset was read.
func (r *PostgresRepository) AppendChunk(ctx context.Context, u *models.ChunkedUpload, prevOffset int64) error {
	query := `
		UPDATE chunked_uploads
		SET last_chunk=$1, "offset"=$2, upload_name=$3, upload_complete=$4, last_upload_time=now()
		WHERE upload_id=$5 AND "offset"=$6;
	`
	res, err := r.db.ExecContext(ctx, query,
		u.LastChunk, u.Offset, u.UploadName, u.UploadComplete, u.UploadID, prevOffset)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// Delete removes the session row.
func (r *PostgresRepository) Delete(ctx context.Context, uploadID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chunked_uploads WHERE upload_id=$1;`, uploadID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
