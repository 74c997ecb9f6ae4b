package tempuploads

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+temporary_uploads`).
		WithArgs("up1", "f1", "/tmp/up1/f1", "report.pdf", models.UploadTypeFileData, now, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.TemporaryUpload{
		UploadID: "up1", FileID: "f1", File: "/tmp/up1/f1",
		UploadName: "report.pdf", UploadType: models.UploadTypeFileData, Uploaded: now,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGetByUploadID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"upload_id", "file_id", "file", "upload_name", "upload_type", "uploaded", "uploaded_by"}).
		AddRow("up1", "f1", "/tmp/up1/f1", "report.pdf", models.UploadTypeURL, now, sql.NullString{})

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+temporary_uploads\s+WHERE\s+upload_id=\$1`).
		WithArgs("up1").
		WillReturnRows(rows)

	got, err := repo.GetByUploadID(context.Background(), "up1")
	if err != nil {
		t.Fatalf("GetByUploadID error: %v", err)
	}
	if got.File != "/tmp/up1/f1" || got.UploadType != models.UploadTypeURL {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetByUploadID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+temporary_uploads`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUploadID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+temporary_uploads`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
