package tempuploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/server/models"
)

// PostgresRepository implements temporary upload storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.TemporaryUpload) error {
	query := `
		INSERT INTO temporary_uploads (upload_id, file_id, file, upload_name, upload_type, uploaded, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.ExecContext(ctx, query,
		u.UploadID, u.FileID, u.File, u.UploadName, u.UploadType, u.Uploaded, nullable(u.UploadedBy))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUploadID(ctx context.Context, uploadID string) (*models.TemporaryUpload, error) {
	query := `
		SELECT upload_id, file_id, file, upload_name, upload_type, uploaded, uploaded_by
		FROM temporary_uploads WHERE upload_id=$1;
	`
	u := &models.TemporaryUpload{}
	var uploadedBy sql.NullString
	err := r.db.QueryRowContext(ctx, query, uploadID).Scan(
		&u.UploadID, &u.FileID, &u.File, &u.UploadName, &u.UploadType, &u.Uploaded, &uploadedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.UploadedBy = uploadedBy.String
	return u, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, uploadID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM temporary_uploads WHERE upload_id=$1;`, uploadID)
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
