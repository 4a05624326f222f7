package config

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 client and bucket info for the media store
type S3Config struct {
	Client     *s3.Client
	BucketName string
	// PublicHost is the host under which uploaded objects are reachable,
	// used to recognize our own URLs during delete cleanup.
	PublicHost string
}

// NewS3Config initializes the S3 client using the configured region and
// the default AWS credential chain
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.S3Bucket,
		PublicHost: fmt.Sprintf("%s.s3.amazonaws.com", cfg.S3Bucket),
	}, nil
}

// ObjectURL returns the public URL for an object key
func (s *S3Config) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s/%s", s.PublicHost, key)
}
