package layoutcache

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
)

// S3Options locates the bucket. Endpoint and static credentials are
// optional; without them the default AWS credential chain is used.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Cache stores one snappy-compressed JSON object per key
type S3Cache struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Cache builds an S3 client from opts
func NewS3Cache(ctx context.Context, opts S3Options) (*S3Cache, error) {
	loaders := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loaders = append(loaders, config.WithRegion(opts.Region))
	}
	if opts.Endpoint != "" {
		loaders = append(loaders, config.WithBaseEndpoint(opts.Endpoint))
	}
	if opts.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// MinIO and other self-hosted endpoints need path-style addressing
		o.UsePathStyle = opts.Endpoint != ""
	})
	return &S3Cache{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

func (c *S3Cache) objectKey(key string) string {
	return c.prefix + safeKey(key) + fileSuffix
}

func (c *S3Cache) Get(ctx context.Context, key string) (*Entry, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get layout %s from S3: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", key, err)
	}
	return decodeEntry(data)
}

func (c *S3Cache) Put(ctx context.Context, entry *Entry) error {
	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.objectKey(entry.Key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload layout %s to S3: %w", entry.Key, err)
	}
	return nil
}

func (c *S3Cache) Close() error { return nil }
