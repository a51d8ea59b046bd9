package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/time/rate"

	appcfg "github.com/fdg312/mealsim/internal/config"
)

// S3Store implements Store on any S3-compatible object storage.
type S3Store struct {
	client  *s3.Client
	bucket  string
	limiter *rate.Limiter // nil when writes are not throttled
}

// NewS3Store creates an S3Store. Path-style addressing is used so that
// MinIO and Yandex Object Storage endpoints work unchanged.
func NewS3Store(ctx context.Context, cfg appcfg.S3Config) (*S3Store, error) {
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("S3 configuration incomplete, missing: %v", missing)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	store := &S3Store{client: client, bucket: cfg.Bucket}
	if cfg.MaxWritesPerSec > 0 {
		store.limiter = rate.NewLimiter(rate.Limit(cfg.MaxWritesPerSec), cfg.MaxWritesPerSec)
	}
	return store, nil
}

// PutObject uploads data to S3
func (s *S3Store) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to put object: %w", err)
	}

	return int64(len(data)), nil
}

// GetObject downloads an object from S3
func (s *S3Store) GetObject(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return data, nil
}

// DeleteObject deletes an object from S3
func (s *S3Store) DeleteObject(ctx context.Context, key string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (s *S3Store) Close() error { return nil }

func (s *S3Store) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("s3 write throttled: %w", err)
	}
	return nil
}
