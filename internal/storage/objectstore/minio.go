// Package objectstore archives original uploads in MinIO so citations can
// point back at the exact bytes that were ingested.
package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// originalsPrefix is the key layout for archived uploads. The locator a
// caller gets back is "s3://<bucket>/originals/<filename>".
const originalsPrefix = "originals"

// MinioStore archives original files in a single bucket. A nil *MinioStore
// is valid at the pipeline level and means degraded mode: callers fall back
// to a "local://" placeholder locator instead of failing the ingest.
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// Config carries MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Bucket    string
}

// New connects to MinIO and ensures the archive bucket exists. The initial
// bucket probe doubles as a health check so a misconfigured store fails at
// startup rather than on the first upload.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	s := &MinioStore{client: client, bucket: cfg.Bucket, log: log}
	found, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket '%s': %w", cfg.Bucket, err)
	}
	if !found {
		log.Info(fmt.Sprintf("Bucket '%s' not found, creating it", cfg.Bucket))
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket '%s': %w", cfg.Bucket, err)
		}
	}
	return s, nil
}

// Put archives the file content under originals/<filename> and returns the
// durable locator.
func (s *MinioStore) Put(ctx context.Context, filename string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s", originalsPrefix, filename)
	contentType := mimetype.Detect(data).String()

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object '%s': %w", key, err)
	}

	s.log.Info(fmt.Sprintf("Archived original to %s/%s", s.bucket, key))
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// HealthCheck verifies connectivity and credentials.
func (s *MinioStore) HealthCheck(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return fmt.Errorf("minio health check failed: %w", err)
	}
	return nil
}

// DegradedLocator is the placeholder archive locator recorded when no
// object store is configured. It preserves the key layout so the record
// can be backfilled later.
func DegradedLocator(filename string) string {
	return fmt.Sprintf("local://%s/%s", originalsPrefix, filename)
}
