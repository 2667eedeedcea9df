package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of the S3 API used for staging.
// *s3.Client satisfies it.
type S3Client interface {
	s3.ListObjectsV2APIClient
	manager.DownloadAPIClient
	manager.UploadAPIClient
}

// clientSource lazily builds the S3 client from the default AWS credential
// chain, so purely local jobs never touch AWS configuration.
type clientSource struct {
	region   string
	endpoint string

	once   sync.Once
	client S3Client
	err    error
}

func (c *clientSource) get(ctx context.Context) (S3Client, error) {
	c.once.Do(func() {
		if c.client != nil {
			return
		}
		var opts []func(*config.LoadOptions) error
		if c.region != "" {
			opts = append(opts, config.WithRegion(c.region))
		}
		cfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			c.err = fmt.Errorf("loading AWS configuration: %w", err)
			return
		}
		c.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if c.endpoint != "" {
				o.BaseEndpoint = aws.String(c.endpoint)
				o.UsePathStyle = true
			}
		})
	})
	return c.client, c.err
}
