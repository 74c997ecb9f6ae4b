package httpapi

import (
	"errors"
	"net/http"

	"github.com/filedrophq/filedrop/internal/common"
)

// statusFor maps service errors onto HTTP status codes. Client mistakes
// (bad metadata, bad identifiers, replayed chunks) are 400; unknown ids
// are 404; storage and reassembly failures are the server's fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorMissingMetadata),
		errors.Is(err, common.ErrorSizeChanged),
		errors.Is(err, common.ErrorInvalidFileMeta),
		errors.Is(err, common.ErrorInvalidChunkMeta),
		errors.Is(err, common.ErrorFileExists),
		errors.Is(err, common.ErrorConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err.Error())
	}
	http.Error(w, err.Error(), code)
}
