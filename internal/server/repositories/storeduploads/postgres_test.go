package storeduploads

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

	uploaded := time.Now().Add(-time.Hour)
	stored := time.Now()
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+stored_uploads`).
		WithArgs("up1", "docs/report.pdf", uploaded, stored, sql.NullString{String: "alice", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.StoredUpload{
		UploadID: "up1", File: "docs/report.pdf",
		Uploaded: uploaded, Stored: stored, UploadedBy: "alice",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGetByUploadID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"upload_id", "file", "uploaded", "stored", "uploaded_by"}).
		AddRow("up1", "docs/report.pdf", now, now, sql.NullString{})

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+stored_uploads\s+WHERE\s+upload_id=\$1`).
		WithArgs("up1").
		WillReturnRows(rows)

	got, err := repo.GetByUploadID(context.Background(), "up1")
	if err != nil {
		t.Fatalf("GetByUploadID error: %v", err)
	}
	if got.File != "docs/report.pdf" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetByFile_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"upload_id", "file", "uploaded", "stored", "uploaded_by"}).
		AddRow("up1", "docs/report.pdf", now, now, sql.NullString{})

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+stored_uploads\s+WHERE\s+file=\$1`).
		WithArgs("docs/report.pdf").
		WillReturnRows(rows)

	got, err := repo.GetByFile(context.Background(), "docs/report.pdf")
	if err != nil {
		t.Fatalf("GetByFile error: %v", err)
	}
	if got.UploadID != "up1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetByFile_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+.*FROM\s+stored_uploads\s+WHERE\s+file=\$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByFile(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+stored_uploads`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
