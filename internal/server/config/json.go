package config

import (
	"encoding/json"
	"os"

	"github.com/filedrophq/filedrop/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its fields are copied into the
// runtime Config struct.
type JsonConfig struct {
	EndpointAddr        string `json:"endpoint_addr"`
	DatabaseDSN         string `json:"database_dsn"`
	SecretKey           string `json:"secret_key"`
	StorageBackend      string `json:"storage_backend"`
	UploadTmpPath       string `json:"upload_tmp_path"`
	ChunkTmpPath        string `json:"chunk_tmp_path"`
	FileStorePath       string `json:"file_store_path"`
	ChunkReadSize       int64  `json:"chunk_read_size"`
	DeleteUploadTmpDirs bool   `json:"delete_upload_tmp_dirs"`
	S3AccessKey         string `json:"s3_access_key"`
	S3SecretKey         string `json:"s3_secret_key"`
	S3Bucket            string `json:"s3_bucket"`
	S3Region            string `json:"s3_region"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. A file that cannot be read or
// contains invalid JSON causes a panic. The caller is expected to merge
// these values with defaults and command-line flags as part of the full
// configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.StorageBackend = c.StorageBackend
	config.UploadTmpPath = c.UploadTmpPath
	config.ChunkTmpPath = c.ChunkTmpPath
	config.FileStorePath = c.FileStorePath
	config.ChunkReadSize = c.ChunkReadSize
	config.DeleteUploadTmpDirs = c.DeleteUploadTmpDirs
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
