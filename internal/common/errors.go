// Package common defines shared constants and sentinel errors used across
// filedrop components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("update conflict")

	// Validation errors: malformed identifiers, missing or mismatched
	// chunk metadata, bad request content.
	ErrorValidation       = errors.New("validation error")
	ErrorMissingMetadata  = errors.New("missing required metadata")
	ErrorSizeChanged      = errors.New("upload total size has changed")
	ErrorInvalidFileMeta  = errors.New("file metadata is invalid")
	ErrorInvalidChunkMeta = errors.New("chunked upload metadata is invalid")
	ErrorFileExists       = errors.New("file exists")

	// Storage configuration errors: missing storage roots, paths escaping
	// the configured root. Always server-side failures.
	ErrorStorageConfig = errors.New("storage configuration error")

	// Reassembly failures of an otherwise accepted chunked upload.
	ErrorReassembly = errors.New("upload reassembly failed")

	// Invalid use of a component (reader not open, incomplete session
	// passed to the reassembly engine).
	ErrorInvalidState = errors.New("invalid state")

	// Bearer token errors.
	ErrorInvalidToken = errors.New("invalid token")
)
