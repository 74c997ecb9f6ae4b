package config

import (
	"flag"
	"os"

	"github.com/filedrophq/filedrop/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   HMAC secret key for the optional bearer-token principal
//	-k string   permanent storage backend, "local" or "s3"
//	-t string   temporary upload root directory
//	-q string   chunk storage root directory
//	-f string   local permanent store root directory
//	-r int      reassembly read-buffer size in bytes
//	-x bool     delete per-upload temp directories on revert/promotion
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-t", "-q", "-f", "-r", "-x", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (local or s3)")
	fs.StringVar(&config.UploadTmpPath, "t", config.UploadTmpPath, "temporary upload root")
	fs.StringVar(&config.ChunkTmpPath, "q", config.ChunkTmpPath, "chunk storage root")
	fs.StringVar(&config.FileStorePath, "f", config.FileStorePath, "local permanent store root")
	fs.Int64Var(&config.ChunkReadSize, "r", config.ChunkReadSize, "reassembly read-buffer size (bytes)")
	fs.BoolVar(&config.DeleteUploadTmpDirs, "x", config.DeleteUploadTmpDirs, "delete temp upload directories")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
