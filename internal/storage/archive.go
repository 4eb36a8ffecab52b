// Package storage mirrors uploaded confession payloads into an S3
// compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// Archive stores payload copies.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Options configures an S3 archive.
type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	Prefix          string
}

type s3Archive struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3Archive connects to the endpoint and creates the bucket if needed.
func NewS3Archive(ctx context.Context, opts Options) (Archive, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.WithField("bucket", opts.Bucket).Info("Created archive bucket")
	}

	return &s3Archive{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

func (s *s3Archive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path.Join(s.prefix, key), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// ConfessionKey is the object key for a confession payload.
func ConfessionKey(txID string) string {
	return "confessions/" + txID + ".json"
}
