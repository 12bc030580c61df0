package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAttachmentResolver is a mock implementation of port.AttachmentResolver.
type MockAttachmentResolver struct {
	mock.Mock
}

func (m *MockAttachmentResolver) AttachmentURL(ctx context.Context, attachmentID int64) (string, error) {
	args := m.Called(ctx, attachmentID)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentResolver) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
