// Package blobstore wraps an S3-compatible object store for uploaded
// pronunciation audio (§4.3.c). Grounded on the minio-go/v7 wrapper
// pattern used by the retrieval pack's stegmaier-landing backend,
// adapted to a single fixed bucket rather than a per-tenant bucket.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/duotopia/backend/internal/config"
)

// Client wraps a minio.Client bound to a single audio bucket.
type Client struct {
	client *minio.Client
	bucket string
	useSSL bool
}

// New constructs a blobstore Client, ensuring the configured bucket
// exists.
func New(ctx context.Context, cfg config.BlobConfig) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Client{client: client, bucket: cfg.Bucket, useSSL: cfg.UseSSL}, nil
}

// PutAudio uploads an audio blob keyed by analysis_id (the idempotency
// anchor §4.3.c) and returns the stored object's key. Re-uploading the
// same analysis_id overwrites the same key, which is harmless since
// upload_analysis itself is idempotent on analysis_id at the database
// layer.
func (c *Client) PutAudio(ctx context.Context, analysisID string, body io.Reader, size int64, contentType string) (string, error) {
	key := objectKey(analysisID)
	_, err := c.client.PutObject(ctx, c.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	return key, nil
}

// GetAudio downloads a stored audio object by its key, used by
// internal/grading to hand raw bytes to the assessment provider during
// server-side batch dispatch (§4.4).
func (c *Client) GetAudio(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio object: %w", err)
	}
	return data, nil
}

// PresignedGetURL returns a time-limited URL for fetching a stored
// audio object, used when surfacing a recording_url to a teacher UI.
func (c *Client) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, c.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned url: %w", err)
	}
	return u.String(), nil
}

func objectKey(analysisID string) string {
	if analysisID == "" {
		analysisID = uuid.NewString()
	}
	return fmt.Sprintf("attempts/%s.audio", analysisID)
}
