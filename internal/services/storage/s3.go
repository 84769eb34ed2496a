package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "ytaudiobot/internal/config"
	"ytaudiobot/internal/models"
)

const presignExpiry = 7 * 24 * time.Hour

// S3Storage uploads files under a key prefix in one S3 bucket.
type S3Storage struct {
	client     *s3.Client
	bucketName string
	prefix     string
}

func NewS3Storage(cfg *appconfig.S3Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client

	// Check if we're using LocalStack
	if cfg.EndpointURL != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true // Required for LocalStack
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:     client,
		bucketName: cfg.BucketName,
		prefix:     cfg.Prefix,
	}, nil
}

func (s *S3Storage) Backend() string {
	return "s3"
}

func (s *S3Storage) Upload(ctx context.Context, name string, data io.Reader, contentType string) (*models.UploadResult, error) {
	key := path.Join(s.prefix, name)

	// Read all data into buffer for size calculation
	buf := new(bytes.Buffer)
	size, err := io.Copy(buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	link, err := s.generatePresignedURL(ctx, key)
	if err != nil {
		// The object is stored; a missing share link is not fatal
		link = ""
	}

	return &models.UploadResult{
		FileID:  key,
		Link:    link,
		Backend: s.Backend(),
	}, nil
}

func (s *S3Storage) Ping(ctx context.Context) error {
	input := &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	}

	if _, err := s.client.HeadBucket(ctx, input); err != nil {
		return fmt.Errorf("s3 ping failed: %w", err)
	}
	return nil
}

func (s *S3Storage) generatePresignedURL(ctx context.Context, key string) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}

	presignResult, err := presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignResult.URL, nil
}
