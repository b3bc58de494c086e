package photo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/redmonkez12/plantopia/internal/config"
)

// objectPutter is the subset of the S3 client used by S3Store
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads photos to an S3-compatible bucket
type S3Store struct {
	client   objectPutter
	bucket   string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

// NewS3Store builds the S3 client from the photo configuration.
// Static credentials are used when provided, otherwise the default AWS chain.
func NewS3Store(ctx context.Context, cfg config.PhotoConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Store(client, cfg), nil
}

func newS3Store(client objectPutter, cfg config.PhotoConfig) *S3Store {
	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  publicBaseURL(cfg),
		maxBytes: cfg.MaxBytes,
		now:      time.Now,
	}
}

// Upload validates and stores the photo, returning its public URL
func (s *S3Store) Upload(ctx context.Context, ownerUID string, upload Upload) (string, error) {
	if err := upload.Validate(s.maxBytes); err != nil {
		return "", err
	}

	key := ObjectKey(ownerUID, upload.Filename, s.now())

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(upload.ContentType),
	}
	if upload.Size > 0 {
		input.ContentLength = aws.Int64(upload.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// publicBaseURL prefers the configured CDN/public URL, then the custom
// endpoint in path style, then the regional virtual-hosted bucket URL.
func publicBaseURL(cfg config.PhotoConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
