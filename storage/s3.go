package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"campusbarter/apperr"
)

// S3Storage uploads item images to an S3 bucket under items/<uuid>.<ext>.
// Without AWS credentials it degrades to returning a fake URL so local
// development works without a bucket.
type S3Storage struct {
	bucket string
	region string
	client *s3.Client
}

func NewS3Storage(ctx context.Context, bucket, region string) (*S3Storage, error) {
	storage := &S3Storage{bucket: bucket, region: region}

	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		log.Println("[STORAGE] No AWS credentials configured, using fake image URLs")
		return storage, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, apperr.Wrap(apperr.StorageError, "loading AWS config", err)
	}
	storage.client = s3.NewFromConfig(cfg)

	log.Printf("[STORAGE] S3 storage initialized (bucket: %s, region: %s)", bucket, region)
	return storage, nil
}

// Store uploads the image and returns its public URL
func (s *S3Storage) Store(ctx context.Context, content []byte, filename, contentType string) (string, error) {
	if s.client == nil {
		return fmt.Sprintf("https://fake-s3-url.example.com/%s", filename), nil
	}

	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = filename[idx:]
	}
	key := fmt.Sprintf("items/%s%s", uuid.NewString(), ext)

	log.Printf("[STORAGE] Uploading %s (%d bytes) as %s", filename, len(content), key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[STORAGE] Error uploading %s: %v", key, err)
		return "", apperr.Wrap(apperr.StorageError, "uploading image", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
