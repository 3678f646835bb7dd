package filestore

import (
	"strings"

	"github.com/koustreak/yobatis/internal/errs"
)

// Provider identifies the object storage backend.
type Provider string

const (
	ProviderMinIO Provider = "minio"
)

// Config holds all settings needed to connect to an object storage backend.
type Config struct {
	// Provider is the storage backend (e.g. ProviderMinIO).
	Provider Provider

	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string

	// DefaultBucket, when set, is the bucket Ping checks.
	DefaultBucket string
}

// DefaultConfig returns a local-dev config for MinIO.
func DefaultConfig(endpoint, accessKey, secretKey string) *Config {
	return &Config{
		Provider:  ProviderMinIO,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    false,
	}
}

// Validate reports missing connection settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errs.New(errs.ErrKindInvalidConfiguration, "filestore endpoint must not be empty")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return errs.New(errs.ErrKindInvalidConfiguration, "filestore credentials must not be empty")
	}
	return nil
}
