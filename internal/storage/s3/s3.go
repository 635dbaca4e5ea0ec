package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/storage"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)

	// PublicBaseURL is prepended to object keys to form public URLs
	// (e.g. a CDN origin). When empty, URLs are built from the endpoint
	// and bucket in path style.
	PublicBaseURL string

	// CreateBucketIfNotExist creates the bucket on startup (MinIO dev setups)
	CreateBucketIfNotExist bool
}

// S3Backend is an AWS S3 implementation of the storage.Backend interface
type S3Backend struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Backend creates a new S3 storage backend
func NewS3Backend(config Config) (*S3Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1" // Default region
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}

	// Add credentials if provided
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			),
		))
	}

	// Add custom endpoint if provided (for S3-compatible services like MinIO)
	if config.Endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               config.Endpoint,
					SigningRegion:     config.Region,
					HostnameImmutable: true,
				}, nil
			})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(customResolver))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	if config.CreateBucketIfNotExist {
		_, err := s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
			Bucket: aws.String(config.Bucket),
		})
		if err != nil {
			_, err = s3Client.CreateBucket(context.Background(), &s3.CreateBucketInput{
				Bucket: aws.String(config.Bucket),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create bucket: %w", err)
			}
		}
	}

	publicBase := strings.TrimSuffix(config.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("%s/%s", strings.TrimSuffix(config.Endpoint, "/"), config.Bucket)
	}

	return &S3Backend{
		client:        s3Client,
		bucket:        config.Bucket,
		publicBaseURL: publicBase,
	}, nil
}

// URLFor returns the public URL for an object key.
func (b *S3Backend) URLFor(key string) string {
	return b.publicBaseURL + "/" + key
}

// Upload uploads content directly to S3 and returns the object's public URL
func (b *S3Backend) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	uploader := manager.NewUploader(b.client)

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return b.URLFor(key), nil
}

// Delete deletes a single object from S3
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return storage.ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// DeleteBatch deletes up to 1000 objects in a single DeleteObjects call.
// S3 processes the batch concurrently server-side; larger batches are split.
func (b *S3Backend) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	const maxBatch = 1000

	deleted := 0
	for len(keys) > 0 {
		batch := keys
		if len(batch) > maxBatch {
			batch = keys[:maxBatch]
		}
		keys = keys[len(batch):]

		objects := make([]types.ObjectIdentifier, 0, len(batch))
		for _, key := range batch {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(b.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete objects: %w", err)
		}
		deleted += len(batch) - len(out.Errors)
		if len(out.Errors) > 0 {
			e := out.Errors[0]
			return deleted, fmt.Errorf("failed to delete %s: %s", aws.ToString(e.Key), aws.ToString(e.Message))
		}
	}

	return deleted, nil
}

// List returns one page of objects under prefix. The returned cursor is the
// S3 continuation token; pages must be walked in order.
func (b *S3Backend) List(ctx context.Context, prefix, cursor string) (storage.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}

	out, err := b.client.ListObjectsV2(ctx, input)
	if err != nil {
		return storage.Page{}, fmt.Errorf("failed to list objects: %w", err)
	}

	page := storage.Page{
		Objects: make([]storage.ObjectInfo, 0, len(out.Contents)),
	}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		info := storage.ObjectInfo{
			Key:  key,
			URL:  b.URLFor(key),
			Size: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			info.UploadedAt = *obj.LastModified
		}
		page.Objects = append(page.Objects, info)
	}
	if aws.ToBool(out.IsTruncated) {
		page.Cursor = aws.ToString(out.NextContinuationToken)
	}

	return page, nil
}
