package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const exportContentType = "application/x-ndjson"

// S3Options configures an S3Destination.
type S3Options struct {
	Bucket string
	Key    string
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores such
	// as MinIO; setting it switches the client to path-style addressing.
	Endpoint string
}

// S3Destination uploads each activity export as a single object,
// replacing the previous export at the same key.
type S3Destination struct {
	client *s3.Client
	opts   S3Options
}

// NewS3Destination resolves AWS credentials from the default chain and
// returns a destination writing to opts.Bucket under opts.Key.
func NewS3Destination(ctx context.Context, opts S3Options) (*S3Destination, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("resolve AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Destination{client: client, opts: opts}, nil
}

// Write uploads one export.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.opts.Bucket),
		Key:         aws.String(d.opts.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(exportContentType),
	})
	if err != nil {
		return fmt.Errorf("upload activity export to s3://%s/%s: %w", d.opts.Bucket, d.opts.Key, err)
	}
	return nil
}
