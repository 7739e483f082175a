package source

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jonathan/resume-extract/internal/textract"
)

// ObjectAPI is the subset of *s3.Client the bucket source uses
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures a bucket source
type S3Options struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // Optional S3-compatible endpoint; enables path-style addressing
	MaxBytes int64
}

// Bucket is a Source backed by objects under a prefix in an S3 bucket
type Bucket struct {
	client   ObjectAPI
	bucket   string
	prefix   string
	maxBytes int64
}

// NewS3 creates a bucket source using the default AWS credential chain
func NewS3(ctx context.Context, opts S3Options) (*Bucket, error) {
	if opts.Bucket == "" {
		return nil, &Error{Message: "s3 bucket is required"}
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &Error{Message: "load aws config", Cause: err}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewBucket(client, opts), nil
}

// NewBucket creates a bucket source over an existing client
func NewBucket(client ObjectAPI, opts S3Options) *Bucket {
	return &Bucket{
		client:   client,
		bucket:   opts.Bucket,
		prefix:   strings.TrimLeft(strings.TrimSpace(opts.Prefix), "/"),
		maxBytes: opts.MaxBytes,
	}
}

// List returns the keys of all supported documents under the prefix
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(b.bucket)}
	if b.prefix != "" {
		input.Prefix = aws.String(b.prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("s3 list bucket=%s prefix=%s", b.bucket, b.prefix), Cause: err}
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || !textract.IsSupported(key) {
				continue
			}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Read downloads one object by key
func (b *Bucket) Read(ctx context.Context, key string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("s3 get object bucket=%s key=%s", b.bucket, key), Cause: err}
	}
	defer func() { _ = out.Body.Close() }()

	if b.maxBytes > 0 && aws.ToInt64(out.ContentLength) > b.maxBytes {
		return nil, &TooLargeError{Name: key, Limit: b.maxBytes}
	}
	data, err := readLimited(out.Body, key, b.maxBytes)
	if err != nil {
		return nil, err
	}
	return &Document{Name: key, Location: fmt.Sprintf("s3://%s/%s", b.bucket, key), Data: data}, nil
}
