package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wps3sync/internal/domain"
)

// MockSyncService is a mock implementation of service.SyncService.
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) HandleUpload(ctx context.Context, meta domain.UploadMetadata) (domain.UploadMetadata, domain.SyncResult) {
	args := m.Called(ctx, meta)
	return args.Get(0).(domain.UploadMetadata), args.Get(1).(domain.SyncResult)
}

func (m *MockSyncService) HandleDelete(ctx context.Context, attachmentID int64) domain.SyncResult {
	args := m.Called(ctx, attachmentID)
	return args.Get(0).(domain.SyncResult)
}

func (m *MockSyncService) SuppressSizeVariants(sizes domain.SizeVariants) domain.SizeVariants {
	args := m.Called(sizes)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.SizeVariants)
}

func (m *MockSyncService) RewriteURL(ctx context.Context, rawURL string, attachmentID int64) string {
	args := m.Called(ctx, rawURL, attachmentID)
	return args.String(0)
}

func (m *MockSyncService) RemotePut(ctx context.Context, localPath, relPath string) domain.SyncResult {
	args := m.Called(ctx, localPath, relPath)
	return args.Get(0).(domain.SyncResult)
}

func (m *MockSyncService) RemoteDelete(ctx context.Context, relPath string) domain.SyncResult {
	args := m.Called(ctx, relPath)
	return args.Get(0).(domain.SyncResult)
}

func (m *MockSyncService) DeleteLocal(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func (m *MockSyncService) RelativePath(rawURL string) (string, error) {
	args := m.Called(rawURL)
	return args.String(0), args.Error(1)
}

func (m *MockSyncService) ObjectKey(relPath string) string {
	args := m.Called(relPath)
	return args.String(0)
}
