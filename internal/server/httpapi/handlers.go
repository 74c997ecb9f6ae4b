package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/server/uploads"
	"github.com/filedrophq/filedrop/internal/shortid"
)

// defaultUploadField is the multipart field name the filepond client uses;
// it can be overridden per request via the fp_upload_field form value.
const defaultUploadField = "filepond"

const maxMultipartMemory = 32 << 20

func writeID(w http.ResponseWriter, uploadID string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(uploadID))
}

// handleProcess serves both upload entry points: a request carrying an
// Upload-Length header opens a chunked session, anything else must be a
// multipart upload carrying the file content in one shot.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if v := r.Header.Get(common.UploadLengthHeader); v != "" {
		totalSize, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("invalid %s header %q: %w", common.UploadLengthHeader, v, common.ErrorValidation))
			return
		}
		uploadID, err := s.uploads.CreateChunkedUpload(ctx, totalSize, principalFrom(ctx))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeID(w, uploadID)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		s.writeError(w, r, fmt.Errorf("invalid upload request: %w", common.ErrorValidation))
		return
	}

	field := r.FormValue("fp_upload_field")
	if field == "" {
		field = defaultUploadField
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("no file data found in the %q field and no %s header: %w",
			field, common.UploadLengthHeader, common.ErrorValidation))
		return
	}
	defer file.Close()

	uploadID, err := s.uploads.ProcessUpload(ctx, uploads.NewByteSource(header.Filename, file), principalFrom(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeID(w, uploadID)
}

func chunkMetaFrom(r *http.Request) (uploads.ChunkMeta, error) {
	var meta uploads.ChunkMeta

	if v := r.Header.Get(common.UploadOffsetHeader); v != "" {
		offset, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return meta, fmt.Errorf("invalid %s header %q: %w", common.UploadOffsetHeader, v, common.ErrorInvalidChunkMeta)
		}
		meta.Offset = offset
		meta.HasOffset = true
	}
	if v := r.Header.Get(common.UploadLengthHeader); v != "" {
		length, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return meta, fmt.Errorf("invalid %s header %q: %w", common.UploadLengthHeader, v, common.ErrorInvalidChunkMeta)
		}
		meta.Length = length
		meta.HasLength = true
	}
	if _, ok := r.Header[textproto.CanonicalMIMEHeaderKey(common.UploadNameHeader)]; ok {
		meta.Name = r.Header.Get(common.UploadNameHeader)
		meta.HasName = true
	}
	return meta, nil
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if !shortid.Valid(uploadID) {
		s.writeError(w, r, fmt.Errorf("the provided upload ID is of an invalid format: %w", common.ErrorValidation))
		return
	}

	meta, err := chunkMetaFrom(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("unable to read the chunk body: %w", common.ErrorValidation))
		return
	}

	if _, err := s.uploads.AppendChunk(r.Context(), uploadID, meta, body); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeID(w, uploadID)
}

// handleRestart answers a resume query with the offset from which the
// client should continue.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if !shortid.Valid(uploadID) {
		s.writeError(w, r, fmt.Errorf("invalid upload ID specified: %w", common.ErrorNotFound))
		return
	}

	offset, err := s.uploads.ChunkedUploadOffset(r.Context(), uploadID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(common.UploadOffsetHeader, strconv.FormatInt(offset, 10))
	writeID(w, uploadID)
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("unable to read the request body: %w", common.ErrorValidation))
		return
	}
	uploadID := strings.TrimSpace(string(body))

	if err := s.uploads.DeleteTempUpload(r.Context(), uploadID); err != nil {
		// The id may name a chunked session still in flight.
		if errors.Is(err, common.ErrorNotFound) {
			if aerr := s.uploads.AbortChunkedUpload(r.Context(), uploadID); aerr == nil {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, r, fmt.Errorf("no id provided: %w", common.ErrorValidation))
		return
	}

	name, rc, err := s.uploads.OpenStoredUpload(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "load response copy failed", "id", id, "error", err.Error())
	}
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !shortid.Valid(id) {
		s.writeError(w, r, fmt.Errorf("the provided upload ID is of an invalid format: %w", common.ErrorValidation))
		return
	}

	name, rc, err := s.uploads.OpenTempUpload(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "restore response copy failed", "id", id, "error", err.Error())
	}
}

// handleFetch downloads a remote file into temporary storage and proxies
// its content back, tagged with the new upload id.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		s.writeError(w, r, fmt.Errorf("no target URL provided: %w", common.ErrorValidation))
		return
	}

	res, err := s.uploads.FetchRemote(r.Context(), target, principalFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	if res.ContentType != "" {
		w.Header().Set("Content-Type", res.ContentType)
	}
	w.Header().Set("X-Content-Transfer-Id", res.UploadID)

	if r.Method == http.MethodHead {
		return
	}

	_, rc, err := s.uploads.OpenTempUpload(r.Context(), res.UploadID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error(r.Context(), "fetch response copy failed", "target", target, "error", err.Error())
	}
}
