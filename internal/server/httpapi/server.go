// Package httpapi exposes the filepond-style HTTP surface: chunked upload
// session management under /patch, single-shot uploads under /process, and
// the revert/load/restore/fetch collaborator endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/filedrophq/filedrop/internal/logging"
	"github.com/filedrophq/filedrop/internal/server/uploads"
)

type Server struct {
	address   string
	logger    logging.Logger
	uploads   *uploads.Service
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us *uploads.Service, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		uploads:   us,
		jwtSecret: []byte(secretKey),
	}
}

// Router builds the chi router serving the upload API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.withPrincipal)

	r.Post("/process", s.handleProcess)
	r.Patch("/patch/{uploadID}", s.handlePatch)
	r.Head("/patch/{uploadID}", s.handleRestart)
	r.Delete("/revert", s.handleRevert)
	r.Get("/load", s.handleLoad)
	r.Get("/restore", s.handleRestore)
	r.Get("/fetch", s.handleFetch)
	r.Head("/fetch", s.handleFetch)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
