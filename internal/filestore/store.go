// Package filestore defines the interface for the object store backing
// resource attachments: file-typed columns whose values are object keys.
//
// All providers (MinIO, S3-compatible servers, …) implement the Store
// interface. Callers depend only on this package, never on a specific
// provider package.
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the interface all attachment storage providers must implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources (connections, goroutines, etc.).
	Close() error

	// Put streams an object to key inside bucket. size may be -1 when
	// unknown; contentType defaults to application/octet-stream.
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// Stat returns metadata for the object at key inside bucket without
	// downloading its content. Returns a not-found error for missing keys.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PresignGet returns a time-limited URL that allows anyone to download
	// the object at key inside bucket without credentials.
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// ObjectInfo describes a stored attachment.
type ObjectInfo struct {
	// Key is the full object path within the bucket (e.g. "users/1/avatar").
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "image/jpeg").
	ContentType string

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}
