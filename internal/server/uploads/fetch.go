package uploads

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/server/models"
)

// FetchResult describes a remote file fetched into temporary storage.
type FetchResult struct {
	UploadID    string
	FileName    string
	ContentType string
	Size        int64
}

// FetchRemote downloads the file at target into temporary storage and
// records it as a URL-sourced temporary upload. Targets that resolve to
// HTML pages are rejected: the endpoint fetches files, not web pages.
func (s *Service) FetchRemote(ctx context.Context, target, uploadedBy string) (*FetchResult, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("an invalid URL %q was provided: %w", target, common.ErrorValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s: %v: %w", target, err, common.ErrorValidation)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("the remote file was not found: %w", common.ErrorNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("the remote server answered %d for %s: %w", resp.StatusCode, target, common.ErrorValidation)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("provided URL links to HTML content: %w", common.ErrorValidation)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("unable to derive a filename from %q: %w", target, common.ErrorValidation)
	}

	tu, err := s.saveTemporary(ctx, NewByteSource(name, resp.Body), models.UploadTypeURL, uploadedBy)
	if err != nil {
		return nil, err
	}

	size := int64(0)
	if fi, err := os.Stat(tu.File); err == nil {
		size = fi.Size()
	}

	s.logger.Info(ctx, "remote file fetched", "upload_id", tu.UploadID, "url", target, "size", size)
	return &FetchResult{
		UploadID:    tu.UploadID,
		FileName:    name,
		ContentType: contentType,
		Size:        size,
	}, nil
}
