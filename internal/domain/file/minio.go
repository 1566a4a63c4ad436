package file

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioGateway implements ObjectGateway against MinIO or any S3-compatible
// backend — switching providers is an endpoint/credentials change only.
type MinioGateway struct {
	client *minio.Client
	region string
}

// NewMinioGateway creates the shared MinIO client. The client is safe for
// concurrent use; one instance serves all tenants.
func NewMinioGateway(endpoint, accessKey, secretKey, region string, useSSL bool) (*MinioGateway, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioGateway{client: client, region: region}, nil
}

func (g *MinioGateway) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := g.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("%w: check bucket %q: %v", ErrStorageBackend, bucket, err)
	}
	return exists, nil
}

func (g *MinioGateway) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := g.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = g.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: g.region})
	if err != nil {
		// Another request may have created it between the check and the make.
		if again, checkErr := g.client.BucketExists(ctx, bucket); checkErr == nil && again {
			return nil
		}
		return fmt.Errorf("%w: create bucket %q: %v", ErrStorageBackend, bucket, err)
	}
	return nil
}

func (g *MinioGateway) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts PutOptions) error {
	_, err := g.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.UserMetadata,
	})
	if err != nil {
		return fmt.Errorf("%w: put object %q: %v", ErrStorageBackend, key, err)
	}
	return nil
}

func (g *MinioGateway) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := g.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get object %q: %v", ErrStorageBackend, key, err)
	}
	// GetObject is lazy — force the first read so a missing object surfaces here.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("%w: stat object %q: %v", ErrStorageBackend, key, err)
	}
	return obj, nil
}

func (g *MinioGateway) RemoveObject(ctx context.Context, bucket, key string) error {
	if err := g.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %q: %v", ErrStorageBackend, key, err)
	}
	return nil
}

func (g *MinioGateway) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := g.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("%w: copy object %q -> %q: %v", ErrStorageBackend, srcKey, dstKey, err)
	}
	return nil
}

func (g *MinioGateway) PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	u, err := g.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("%w: presign object %q: %v", ErrStorageBackend, key, err)
	}
	return u.String(), nil
}
