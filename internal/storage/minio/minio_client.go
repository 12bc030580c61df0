package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wps3sync/internal/config"
	"wps3sync/internal/port"
)

type minioClient struct {
	client *minio.Client
}

// NewMinioClient creates an ObjectStorage backed by an S3-compatible server
// reached through minio-go. The endpoint is host[:port] without a scheme.
func NewMinioClient(cfg *config.S3Config) (port.ObjectStorage, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &minioClient{client: client}, nil
}

func (c *minioClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	size := input.Size
	if size <= 0 {
		size = -1
	}
	opts := minio.PutObjectOptions{ContentType: input.ContentType}
	if input.ACL != "" {
		opts.UserMetadata = map[string]string{"x-amz-acl": input.ACL}
	}

	info, err := c.client.PutObject(ctx, input.Bucket, input.Key, input.Body, size, opts)
	if err != nil {
		return nil, fmt.Errorf("minio upload: %w", err)
	}

	location := info.Location
	if location == "" {
		location = objectLocation(c.client.EndpointURL(), input.Bucket, input.Key)
	}
	return &port.UploadOutput{
		Location: location,
		ETag:     info.ETag,
	}, nil
}

func (c *minioClient) Delete(ctx context.Context, bucket, key string) error {
	if err := c.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete: %w", err)
	}
	return nil
}

func (c *minioClient) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	u, err := c.client.PresignedGetObject(ctx, bucket, key, time.Duration(expirySeconds)*time.Second, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign: %w", err)
	}
	return u.String(), nil
}

func (c *minioClient) Ping(ctx context.Context, bucket string) error {
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio bucket exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio bucket %q does not exist", bucket)
	}
	return nil
}

// objectLocation builds the path-style URL of an object on the endpoint.
func objectLocation(endpoint *url.URL, bucket, key string) string {
	u := *endpoint
	u.Path = "/" + bucket + "/" + key
	return u.String()
}
