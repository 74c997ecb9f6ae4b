// Package uploads implements the chunked-upload state machine, the
// reassembly engine and the promotion API on top of the metadata
// repositories and the blob sink.
package uploads

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"sync"

	"github.com/filedrophq/filedrop/internal/dbx"
	"github.com/filedrophq/filedrop/internal/logging"
	"github.com/filedrophq/filedrop/internal/server/config"
	"github.com/filedrophq/filedrop/internal/server/repositories/repomanager"
	"github.com/filedrophq/filedrop/internal/server/storage"
)

// ByteSource is a named byte stream consumed when storing upload content.
// It is implemented by multipart file parts and by the chunked reader, so
// consumers never care whether content arrived in one request or many.
type ByteSource interface {
	io.Reader
	Name() string
}

type namedReader struct {
	io.Reader
	name string
}

func (n namedReader) Name() string { return n.name }

// NewByteSource wraps r as a ByteSource carrying the given name.
func NewByteSource(name string, r io.Reader) ByteSource {
	return namedReader{Reader: r, name: name}
}

// Service exposes every upload operation: chunked session management,
// single-shot uploads, remote fetches, and promotion to permanent storage.
type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	sink   storage.BlobSink
	config *config.Config
	logger logging.Logger

	// httpClient performs /fetch downloads; swapped out in tests.
	httpClient *http.Client

	// Mutating operations on one session run under its per-session mutex.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// NewService wires the upload service. db may be nil when the repository
// manager does not use it (in-memory repositories).
func NewService(db *sql.DB, rm repomanager.RepositoryManager, sink storage.BlobSink, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		db:           db,
		repos:        rm,
		sink:         sink,
		config:       cfg,
		logger:       logger.With("module", "uploads"),
		httpClient:   http.DefaultClient,
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

// lockSession acquires the mutex serializing operations on uploadID and
// returns its unlock function.
func (s *Service) lockSession(uploadID string) func() {
	s.mu.Lock()
	l, ok := s.sessionLocks[uploadID]
	if !ok {
		l = &sync.Mutex{}
		s.sessionLocks[uploadID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// forgetSession drops the mutex of a session that reached a terminal state.
func (s *Service) forgetSession(uploadID string) {
	s.mu.Lock()
	delete(s.sessionLocks, uploadID)
	s.mu.Unlock()
}

// withTx runs fn inside a database transaction when a database handle is
// present. In-memory repositories ignore the handle, so fn runs directly.
func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}
