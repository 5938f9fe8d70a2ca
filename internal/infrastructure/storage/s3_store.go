// Package storage provides the S3 compatible object storage adapter used for
// portfolio media buckets.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/pkg/config"
)

// MaxKeysPerDelete is the DeleteObjects limit of the S3 API.
const MaxKeysPerDelete = 1000

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// Options configures the S3 client.
type Options struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

// OptionsFromEnv builds Options from pkg/config.
func OptionsFromEnv() Options {
	return Options{
		Endpoint:        config.StorageEndpoint,
		Region:          config.StorageRegion,
		AccessKeyID:     config.StorageAccessKeyID,
		SecretAccessKey: config.StorageSecretAccessKey,
		ForcePathStyle:  config.StorageForcePathStyle,
	}
}

// S3Store implements repositories.ObjectStore.
type S3Store struct {
	client S3API
	logger *logging.ChanneledLogger
}

var _ repositories.ObjectStore = (*S3Store)(nil)

// NewS3Store creates an S3 client from opts. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, opts Options, logger *logging.ChanneledLogger) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var s3Opts []func(*s3.Options)
	if opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		})
	}
	if opts.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	logger.Storage().Info("Object storage client configured",
		"endpoint", opts.Endpoint,
		"region", cfg.Region,
		"pathStyle", opts.ForcePathStyle)

	return NewS3StoreWithClient(s3.NewFromConfig(cfg, s3Opts...), logger), nil
}

// NewS3StoreWithClient wraps an existing client. Used by tests.
func NewS3StoreWithClient(client S3API, logger *logging.ChanneledLogger) *S3Store {
	return &S3Store{
		client: client,
		logger: logger,
	}
}

// ListPage lists up to limit objects starting at the continuation token.
func (s *S3Store) ListPage(ctx context.Context, bucket, token string, limit int) (*repositories.ObjectPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if limit > 0 {
		input.MaxKeys = aws.Int32(int32(limit))
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	start := time.Now()
	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		s.logger.Storage().Error("Bucket list failed", "bucket", bucket, "error", err.Error())
		return nil, fmt.Errorf("failed to list objects in %s: %w", bucket, err)
	}

	page := &repositories.ObjectPage{
		Objects: make([]repositories.ObjectInfo, 0, len(out.Contents)),
	}
	for _, obj := range out.Contents {
		info := repositories.ObjectInfo{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		page.Objects = append(page.Objects, info)
	}
	if aws.ToBool(out.IsTruncated) {
		page.NextToken = aws.ToString(out.NextContinuationToken)
	}

	s.logger.Storage().Debug("Bucket page listed",
		"bucket", bucket,
		"objects", len(page.Objects),
		"truncated", page.NextToken != "",
		"duration", time.Since(start))
	return page, nil
}

// RemoveObjects deletes keys in one DeleteObjects call.
func (s *S3Store) RemoveObjects(ctx context.Context, bucket string, keys []string) ([]repositories.RemoveFailure, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if len(keys) > MaxKeysPerDelete {
		return nil, fmt.Errorf("too many keys: %d, maximum is %d per request", len(keys), MaxKeysPerDelete)
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			return nil, errors.New("empty key in keys slice")
		}
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	start := time.Now()
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		s.logger.Storage().Error("Batch remove failed", "bucket", bucket, "keys", len(keys), "error", err.Error())
		return nil, fmt.Errorf("failed to remove objects from %s: %w", bucket, err)
	}

	var failures []repositories.RemoveFailure
	for _, e := range out.Errors {
		failures = append(failures, repositories.RemoveFailure{
			Key:     aws.ToString(e.Key),
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}

	s.logger.Storage().Info("Batch remove completed",
		"bucket", bucket,
		"keys", len(keys),
		"failures", len(failures),
		"duration", time.Since(start))
	return failures, nil
}

// ListBuckets returns every bucket visible to the credentials.
func (s *S3Store) ListBuckets(ctx context.Context) ([]repositories.BucketInfo, error) {
	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		s.logger.Storage().Error("Bucket listing failed", "error", err.Error())
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	buckets := make([]repositories.BucketInfo, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		info := repositories.BucketInfo{Name: aws.ToString(b.Name)}
		if b.CreationDate != nil {
			info.CreatedAt = *b.CreationDate
		}
		buckets = append(buckets, info)
	}
	return buckets, nil
}
