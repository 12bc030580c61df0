package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"wps3sync/internal/service"
)

// MockHookAuthService is a mock implementation of service.HookAuthService.
type MockHookAuthService struct {
	mock.Mock
}

func (m *MockHookAuthService) IssueToken(site string, ttl time.Duration) (string, time.Time, error) {
	args := m.Called(site, ttl)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockHookAuthService) ValidateToken(tokenString string) (*service.HookClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HookClaims), args.Error(1)
}
