// Package chunks implements the on-disk layout of chunked uploads and the
// virtual reader that presents a session's chunk files as one byte stream.
//
// All chunk files for one upload live in a per-upload directory under the
// configured chunk storage root. Chunk files are named <file_id>_<n> with n
// starting at 1 and incrementing by exactly one per accepted chunk.
package chunks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/filedrophq/filedrop/internal/common"
)

// FileName returns the name of the n-th chunk file (1-indexed).
func FileName(fileID string, n int) string {
	return fmt.Sprintf("%s_%d", fileID, n)
}

// Dir resolves the chunk directory for an upload under root. The resolved
// path must be strictly inside root: names that escape it via relative
// path traversal are rejected.
func Dir(root, name string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	dirAbs, err := filepath.Abs(filepath.Join(root, name))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(dirAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("chunk directory %q escapes the storage root: %w", name, common.ErrorStorageConfig)
	}
	return filepath.Join(root, name), nil
}
