// Package models defines server-side data models persisted in the database.
package models

import "time"

// Upload types recorded on a TemporaryUpload.
const (
	// UploadTypeFileData marks content received as uploaded file data.
	UploadTypeFileData = "F"
	// UploadTypeURL marks content fetched server-side from a remote URL.
	UploadTypeURL = "U"
)

// ChunkedUpload tracks one in-progress chunked upload. The row is created
// when the session is opened, updated on every accepted chunk and deleted
// once the chunks have been reassembled into a TemporaryUpload.
type ChunkedUpload struct {
	// UploadID is the externally visible handle and the name of the
	// chunk storage subdirectory.
	UploadID string
	// FileID is the filename prefix of the chunk files (FileID_1, FileID_2, ...).
	FileID string
	// UploadDir is the chunk storage subdirectory name, normally UploadID.
	UploadDir string
	// UploadName is the original client-supplied filename, set by the
	// first chunk and immutable afterwards.
	UploadName string
	// LastChunk counts the chunks written so far.
	LastChunk int
	// Offset is the cumulative byte count written so far. Every incoming
	// chunk must declare exactly this offset.
	Offset int64
	// TotalSize is the declared total upload size in bytes.
	TotalSize int64
	// UploadComplete is set once Offset == TotalSize.
	UploadComplete bool
	// LastUploadTime records when the session was last touched.
	LastUploadTime time.Time
	// UploadedBy optionally records the requesting principal.
	UploadedBy string
}

// TemporaryUpload describes a completed upload waiting in temporary storage
// until the application either stores it permanently or reverts it.
type TemporaryUpload struct {
	UploadID string
	FileID   string
	// File is the blob path relative to the temporary upload root.
	File       string
	UploadName string
	UploadType string
	Uploaded   time.Time
	UploadedBy string
}

// StoredUpload describes a permanently stored file. UploadID is carried
// over from the originating TemporaryUpload.
type StoredUpload struct {
	UploadID string
	// File is the path/key relative to the permanent storage root.
	File string
	// Uploaded is the original upload timestamp, copied forward.
	Uploaded time.Time
	// Stored is the promotion timestamp.
	Stored     time.Time
	UploadedBy string
}
