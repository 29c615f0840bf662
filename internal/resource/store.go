package resource

import (
	"context"
	"errors"
	"time"
)

// ErrBlobNotFound is returned by a BlobStore for unknown or expired keys.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore keeps the raw bytes behind a handle.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
