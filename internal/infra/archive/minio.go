package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
)

// MinioArchive stores transmissions in any S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	bucketMu    sync.Mutex
	bucketReady bool
}

// NewMinioArchive constructs the archive adapter.
func NewMinioArchive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*MinioArchive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &MinioArchive{client: client, bucket: bucket, logger: logger.With("component", "archive.minio")}, nil
}

// ensureBucket creates the bucket on first use. Only success is remembered,
// so a failed check is retried by the next call.
func (a *MinioArchive) ensureBucket(ctx context.Context) error {
	a.bucketMu.Lock()
	defer a.bucketMu.Unlock()
	if a.bucketReady {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil || !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return fmt.Errorf("ensure bucket %s: %w", a.bucket, err)
		}
	}
	a.bucketReady = true
	a.logger.Info("archive bucket ready", "bucket", a.bucket)
	return nil
}

// Put uploads a transmission.
func (a *MinioArchive) Put(ctx context.Context, key string, data []byte, mimeType string) (missionlog.StoredObject, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return missionlog.StoredObject{}, err
	}
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: true,
	})
	if err != nil {
		return missionlog.StoredObject{}, err
	}
	return missionlog.StoredObject{
		Key:      key,
		Size:     info.Size,
		MimeType: mimeType,
		ETag:     info.ETag,
	}, nil
}

// Open fetches an archived transmission for reading.
func (a *MinioArchive) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, statErr := obj.Stat(); statErr != nil {
		obj.Close()
		if minio.ToErrorResponse(statErr).Code == "NoSuchKey" {
			return nil, missionlog.ErrObjectNotFound
		}
		return nil, statErr
	}
	return obj, nil
}

var _ missionlog.Archive = (*MinioArchive)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
