// Package storage provides the pluggable blob sink used for permanently
// stored uploads. Backends are registered at compile time and selected by
// a configuration enum; the chosen sink is constructed once at startup and
// injected into the services that need it.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/filedrophq/filedrop/internal/server/config"
)

// Supported values of config.StorageBackend.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// BlobSink writes, reads and deletes bytes at caller-defined keys. Keys are
// slash-separated paths relative to the backend's storage root.
type BlobSink interface {
	// Save streams r to the blob at key, creating intermediate
	// "directories" as the backend requires.
	Save(ctx context.Context, key string, r io.Reader) error
	// Open returns a reader over the blob at key, or common.ErrorNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether a blob is present at key.
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the blob at key, or returns common.ErrorNotFound.
	Delete(ctx context.Context, key string) error
}

// NewBlobSink constructs the sink selected by cfg.StorageBackend.
func NewBlobSink(ctx context.Context, cfg *config.Config) (BlobSink, error) {
	switch cfg.StorageBackend {
	case BackendLocal:
		return NewLocalSink(cfg.FileStorePath)
	case BackendS3:
		return NewS3Sink(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
