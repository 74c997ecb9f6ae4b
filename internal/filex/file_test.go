package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectories(t *testing.T) {
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "uploads", "chunks")
	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	dir := filepath.Join(tmp, "uploads")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()

	path := filepath.Join(tmp, "uploads")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))

	require.Error(t, EnsureDir(path), "should fail when a file exists with the same name")
}

func TestDirExists(t *testing.T) {
	tmp := t.TempDir()

	require.True(t, DirExists(tmp))
	require.False(t, DirExists(filepath.Join(tmp, "missing")))

	path := filepath.Join(tmp, "plain")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))
	require.False(t, DirExists(path), "a regular file is not a directory")
}

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()

	path := filepath.Join(tmp, "chunk_1")
	require.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("data"), 0o660))
	require.True(t, FileExists(path))

	require.False(t, FileExists(tmp), "a directory is not a regular file")
}
