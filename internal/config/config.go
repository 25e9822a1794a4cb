package config

import (
	"os"
	"strings"
)

// Backend names accepted in STORAGE_BACKEND.
const (
	BackendFile   = "file"
	BackendDynamo = "dynamo"
	BackendS3     = "s3"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	StorageBackend string // "file" (default), "dynamo" or "s3"
	DataDir        string // base directory for the file backend

	HashingSecret string // key material for password digests

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTable    string // single records table for the dynamo backend
	S3Bucket       string // bucket for the s3 backend

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		DataDir:        getEnv("DATA_DIR", ".data"),

		HashingSecret: getEnv("HASHING_SECRET", "thisIsASecret"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTable:    getEnv("DYNAMO_TABLE_RECORDS", "records"),
		S3Bucket:       getEnv("S3_BUCKET_NAME", "go-api-records"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
