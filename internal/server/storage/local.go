package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/filedrophq/filedrop/internal/common"
	"github.com/filedrophq/filedrop/internal/filex"
)

// LocalSink stores blobs as plain files under a root directory.
type LocalSink struct {
	root string
}

// NewLocalSink builds a sink rooted at root. The directory must already
// exist; a missing permanent store is a configuration problem, not
// something to silently create.
func NewLocalSink(root string) (*LocalSink, error) {
	if root == "" {
		return nil, fmt.Errorf("the local file store path is not set: %w", common.ErrorStorageConfig)
	}
	if !filex.DirExists(root) {
		return nil, fmt.Errorf("the local file store directory %s is missing: %w", root, common.ErrorStorageConfig)
	}
	return &LocalSink{root: root}, nil
}

// path maps key onto the filesystem, rejecting keys that escape the root.
func (s *LocalSink) path(key string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(key))
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	pAbs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(pAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %s escapes the file store root: %w", key, common.ErrorStorageConfig)
	}
	return p, nil
}

func (s *LocalSink) Save(ctx context.Context, key string, r io.Reader) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := filex.EnsureDir(filepath.Dir(p)); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

func (s *LocalSink) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s not found on local disk: %w", key, common.ErrorNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalSink) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	return filex.FileExists(p), nil
}

func (s *LocalSink) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if !filex.FileExists(p) {
		return fmt.Errorf("file %s to delete was not found on local disk: %w", key, common.ErrorNotFound)
	}
	return os.Remove(p)
}
