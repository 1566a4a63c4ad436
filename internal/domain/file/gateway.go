package file

import (
	"context"
	"io"
	"time"
)

// DefaultPresignTTL is the presigned-URL lifetime when the caller does not
// override it.
const DefaultPresignTTL = 7 * 24 * time.Hour

// PutOptions carries the Content-Type stored on the object plus contextual
// tags (tenant, uploader, original filename) kept on the backend side,
// independent of the catalog.
type PutOptions struct {
	ContentType  string
	UserMetadata map[string]string
}

// ObjectGateway is the thin adapter over the object-storage backend. All
// operations are network I/O; implementations must wrap failures in
// ErrStorageBackend.
type ObjectGateway interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	// EnsureBucket creates the bucket in the configured region if it is
	// absent. Idempotent — safe under concurrent uploads to a new tenant.
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts PutOptions) error
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucket, key string) error
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
