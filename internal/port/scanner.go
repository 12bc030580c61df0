package port

import (
	"context"

	"wps3sync/internal/domain"
)

// FileScanner checks a local file for malware before it leaves the host.
type FileScanner interface {
	Scan(ctx context.Context, path string) (domain.ScanResult, error)
}
