package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr":          "www.example:9000",
		"database_dsn":           "uploads.db",
		"secret_key":             "my_secret_key",
		"storage_backend":        "s3",
		"upload_tmp_path":        "/tmp/up",
		"chunk_tmp_path":         "/tmp/chunks",
		"file_store_path":        "/srv/store",
		"chunk_read_size":        65536,
		"delete_upload_tmp_dirs": true,
		"s3_access_key":          "user",
		"s3_secret_key":          "password",
		"s3_bucket":              "bucket",
		"s3_region":              "region",
		"s3_base_endpoint":       "base_endpoint",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
		assert.Equal(t, "uploads.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, "s3", cfg.StorageBackend)
		assert.Equal(t, "/tmp/up", cfg.UploadTmpPath)
		assert.Equal(t, "/tmp/chunks", cfg.ChunkTmpPath)
		assert.Equal(t, "/srv/store", cfg.FileStorePath)
		assert.Equal(t, int64(65536), cfg.ChunkReadSize)
		assert.True(t, cfg.DeleteUploadTmpDirs)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	})

	t.Run("no config flag leaves values unchanged", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddr:   "defaults:1234",
			DatabaseDSN:    "uploads.db",
			SecretKey:      "key",
			StorageBackend: "local",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddr)
		assert.Equal(t, "uploads.db", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, "local", cfg.StorageBackend)
	})
}
