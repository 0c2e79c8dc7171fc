package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joshnies/bygg/config"
	"github.com/joshnies/bygg/constants"
	"github.com/joshnies/bygg/lib/console"
)

// Destination in an S3 (or S3-compatible) bucket.
type S3 struct {
	Bucket   string
	uploader *manager.Uploader
}

// Create an S3 destination.
// Credentials come from the default AWS chain (env vars, shared config, instance role).
func NewS3(ctx context.Context, c config.S3Config, bucket string) (*S3, error) {
	if bucket == "" {
		bucket = c.Bucket
	}
	if bucket == "" {
		return nil, errors.New("no S3 bucket given")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}

	// Use custom endpoint for S3-compatible providers
	if c.Endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					PartitionID:   "aws",
					URL:           c.Endpoint,
					SigningRegion: region,
				}, nil
			}
			// returning EndpointNotFoundError will allow the service to fallback to it's default resolution
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(customResolver))
	}

	awscfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		console.ErrorPrintV("Failed to load AWS SDK config: %v", err)
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		o.UsePathStyle = c.Endpoint != ""
	})

	return &S3{
		Bucket:   bucket,
		uploader: manager.NewUploader(client),
	}, nil
}

// Upload the archive. The upload manager sends it in parts, so the archive is never held in memory.
func (d *S3) Put(ctx context.Context, key string, r io.Reader) error {
	_, err := d.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(constants.ContentTypeZip),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", d.Bucket, key, err)
	}
	return nil
}

func (d *S3) Describe(key string) string {
	return fmt.Sprintf("s3://%s/%s", d.Bucket, key)
}
