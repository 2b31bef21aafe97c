// Package filestore defines the interface to the object store holding
// attachment files. The platform stores attachment cells as object paths;
// this package turns those paths into metadata and time-limited download
// URLs for webhook payloads and record reads.
//
// Callers depend only on this package, never on a provider package directly.
package filestore

import (
	"context"
	"time"

	"github.com/smndtrl/nocodb/internal/config"
)

// Config holds the settings needed to connect to the attachment store.
type Config struct {
	// Endpoint is the host:port of the storage server.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string

	// Bucket is the bucket all attachment paths are relative to.
	Bucket string
}

// FromConfig maps the platform configuration onto a store Config.
func FromConfig(c config.FilestoreConfig) *Config {
	return &Config{
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		UseSSL:    c.UseSSL,
		Bucket:    c.DefaultBucket,
	}
}

// ObjectInfo describes a stored attachment object.
type ObjectInfo struct {
	// Key is the full object path within the bucket.
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "image/jpeg").
	ContentType string

	// ETag is the object's entity tag, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}

// Store is the interface every attachment-store provider implements. The
// bucket is fixed at construction; keys are attachment paths.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// StatObject returns metadata for the object at key without downloading
	// its content.
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited URL that allows anyone to
	// download the object at key without credentials.
	PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
