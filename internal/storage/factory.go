package storage

import (
	"fmt"

	"wps3sync/internal/config"
	"wps3sync/internal/domain"
	"wps3sync/internal/port"
	"wps3sync/internal/storage/minio"
	s3storage "wps3sync/internal/storage/s3"
)

// NewObjectStorage builds the storage backend selected by cfg.Provider.
func NewObjectStorage(cfg *config.S3Config) (port.ObjectStorage, error) {
	switch cfg.Provider {
	case config.ProviderS3, "":
		return s3storage.NewS3Client(cfg)
	case config.ProviderMinio:
		return minio.NewMinioClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown storage provider %q", domain.ErrInvalidConfig, cfg.Provider)
	}
}
