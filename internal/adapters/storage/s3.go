package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"eventrsvp/internal/domain"
)

// S3Config holds configuration for the S3 object store.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL overrides the default bucket URL when a CDN fronts the
	// bucket. Empty means the standard S3 URL form.
	PublicBaseURL string
}

// StorageConfig holds configuration for creating an object store.
type StorageConfig struct {
	Provider string
	S3       S3Config
}

// NewObjectStorage creates an object store from config. Provider "s3" uses
// AWS S3; "noop" or unknown uses a no-op store.
func NewObjectStorage(config StorageConfig) (domain.ObjectStorage, error) {
	switch config.Provider {
	case "s3":
		if config.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket")
		}
		awsCfg := aws.Config{
			Region: config.S3.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					config.S3.AccessKeyID,
					config.S3.SecretAccessKey,
					"",
				),
			),
		}
		return &s3Storage{
			client: s3.NewFromConfig(awsCfg),
			config: config.S3,
		}, nil
	case "noop":
		return &noopStorage{}, nil
	default:
		log.Printf("[STORAGE] Unknown storage provider %q, using noop", config.Provider)
		return &noopStorage{}, nil
	}
}

type s3Storage struct {
	client *s3.Client
	config S3Config
}

func (s *s3Storage) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}
	if s.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.config.PublicBaseURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key), nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from s3: %w", err)
	}
	return nil
}

type noopStorage struct{}

func (n *noopStorage) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	log.Println("[STORAGE] Object would be uploaded (noop)", "key", key)
	return "https://storage.invalid/" + key, nil
}

func (n *noopStorage) Delete(ctx context.Context, key string) error {
	log.Println("[STORAGE] Object would be deleted (noop)", "key", key)
	return nil
}
