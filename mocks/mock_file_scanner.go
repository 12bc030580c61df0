package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wps3sync/internal/domain"
)

// MockFileScanner is a mock implementation of port.FileScanner.
type MockFileScanner struct {
	mock.Mock
}

func (m *MockFileScanner) Scan(ctx context.Context, path string) (domain.ScanResult, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.ScanResult), args.Error(1)
}
