package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Config configures access to an S3-compatible object store.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string // empty for AWS
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	Prefix       string // key prefix inside the bucket
}

// NewS3Client builds an S3 client. Static credentials are used when
// provided; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("export: loading AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// PutObjectAPI is the part of *s3.Client used by S3.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores documents in a bucket under {prefix}/{agency}/{year}/{month}/{file}.
type S3 struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

// S3Option configures an S3 exporter.
type S3Option func(*S3)

// WithLogger sets the logger of an S3 exporter.
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3) {
		s.logger = logger
	}
}

// NewS3 creates an exporter writing to bucket.
func NewS3(client PutObjectAPI, bucket, prefix string, opts ...S3Option) (*S3, error) {
	if client == nil {
		return nil, errors.New("export: s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("export: s3 bucket is required")
	}
	s := &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save implements Exporter.
func (s *S3) Save(ctx context.Context, a *Artifact) (*Stored, error) {
	if a == nil || len(a.Data) == 0 {
		return nil, errors.New("export: document is empty")
	}
	key := objectPath(a)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(a.Data),
		ContentType:        aws.String("application/pdf"),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", a.FileName)),
		ContentLength:      aws.Int64(int64(len(a.Data))),
	})
	if err != nil {
		return nil, fmt.Errorf("export: uploading %s: %w", key, err)
	}
	url := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.logger.Info("document uploaded", zap.String("url", url), zap.Int("size", len(a.Data)))
	return &Stored{Path: key, URL: url, Size: int64(len(a.Data))}, nil
}
