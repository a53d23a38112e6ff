package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chartmuseum/storage"
)

// BucketConfig holds the connection info for an S3-compatible bucket.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// BucketClient implements ObjectStorage on chartmuseum's Amazon S3 backend.
type BucketClient struct {
	backend storage.Backend
}

// NewBucketClient validates cfg and builds a path-style S3 client.
func NewBucketClient(cfg BucketConfig) (*BucketClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	// the backend resolves credentials through the default AWS chain
	os.Setenv("AWS_ACCESS_KEY_ID", cfg.AccessKey)
	os.Setenv("AWS_SECRET_ACCESS_KEY", cfg.SecretKey)
	os.Setenv("AWS_REGION", region)

	pathStyle := true
	backend := storage.NewAmazonS3BackendWithOptions(
		cfg.Bucket,
		"",
		region,
		endpointURL(cfg.Endpoint, cfg.UseSSL),
		"",
		&storage.AmazonS3Options{S3ForcePathStyle: &pathStyle},
	)

	return &BucketClient{backend: backend}, nil
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	scheme := "https"
	if !useSSL {
		scheme = "http"
	}
	return scheme + "://" + strings.TrimPrefix(endpoint, "//")
}

// ListObjects lists all objects under prefix.
func (c *BucketClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objects, err := c.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects under %q: %w", prefix, err)
	}

	out := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		out = append(out, ObjectInfo{Key: obj.Path})
	}
	return out, nil
}

// GetObject returns the content of key.
func (c *BucketClient) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.backend.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	return obj.Content, nil
}

var _ ObjectStorage = (*BucketClient)(nil)
