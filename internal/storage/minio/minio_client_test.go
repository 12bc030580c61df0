package minio_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wps3sync/internal/config"
	"wps3sync/internal/storage/minio"
)

func TestMinioClient_PresignIsOffline(t *testing.T) {
	client, err := minio.NewMinioClient(&config.S3Config{
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	signed, err := client.GetPresignedURL(context.Background(), "media", "uploads/2024/x.png", 600)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:9000/media/uploads/2024/x.png?"), signed)
	assert.Contains(t, signed, "X-Amz-Expires=600")
	assert.Contains(t, signed, "X-Amz-Signature=")
}
