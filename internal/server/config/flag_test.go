package config

import (
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-k", "s3",
			"-t", "/tmp/up", "-q", "/tmp/chunks", "-f", "/srv/store", "-r", "65536", "-x=false",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr:        "127.0.0.1:9090",
				DatabaseDSN:         "db",
				SecretKey:           "secret",
				StorageBackend:      "s3",
				UploadTmpPath:       "/tmp/up",
				ChunkTmpPath:        "/tmp/chunks",
				FileStorePath:       "/srv/store",
				ChunkReadSize:       65536,
				DeleteUploadTmpDirs: false,
				S3AccessKey:         "user",
				S3SecretKey:         "password",
				S3Bucket:            "bucket",
				S3Region:            "us-west-1",
				S3BaseEndpoint:      "http://endpoint",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
