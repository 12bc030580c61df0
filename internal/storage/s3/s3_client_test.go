package s3_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wps3sync/internal/config"
	s3storage "wps3sync/internal/storage/s3"
)

func TestS3Client_PresignWithCustomEndpoint(t *testing.T) {
	client, err := s3storage.NewS3Client(&config.S3Config{
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	signed, err := client.GetPresignedURL(context.Background(), "media", "uploads/2024/x.png", 900)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:9000/media/uploads/2024/x.png?"), signed)
	assert.Contains(t, signed, "X-Amz-Expires=900")
	assert.Contains(t, signed, "X-Amz-Signature=")
}

func TestS3Client_PresignVirtualHosted(t *testing.T) {
	client, err := s3storage.NewS3Client(&config.S3Config{
		Region:    "eu-west-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	signed, err := client.GetPresignedURL(context.Background(), "media", "uploads/x.png", 60)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "https://media.s3.eu-west-1.amazonaws.com/uploads/x.png?"), signed)
}

func TestS3Client_PresignBareEndpointUsesSSLFlag(t *testing.T) {
	tests := []struct {
		name   string
		useSSL bool
		prefix string
	}{
		{"plain", false, "http://minio.internal:9000/media/uploads/x.png?"},
		{"tls", true, "https://minio.internal:9000/media/uploads/x.png?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := s3storage.NewS3Client(&config.S3Config{
				Region:    "us-east-1",
				Endpoint:  "minio.internal:9000",
				UseSSL:    tt.useSSL,
				AccessKey: "AKIATEST",
				SecretKey: "secret",
			})
			require.NoError(t, err)

			signed, err := client.GetPresignedURL(context.Background(), "media", "uploads/x.png", 60)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(signed, tt.prefix), signed)
		})
	}
}
