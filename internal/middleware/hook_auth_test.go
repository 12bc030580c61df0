package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"wps3sync/internal/domain"
	"wps3sync/internal/middleware"
	"wps3sync/internal/service"
	"wps3sync/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(authSvc service.HookAuthService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.HookAuth(authSvc))
	r.POST("/hooks/url", func(c *gin.Context) {
		site, _ := c.Get(middleware.ContextKeySite)
		c.JSON(http.StatusOK, gin.H{"site": site})
	})
	return r
}

func TestHookAuth_MissingHeader(t *testing.T) {
	authSvc := new(mocks.MockHookAuthService)
	r := newAuthRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/hooks/url", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	authSvc.AssertNotCalled(t, "ValidateToken", mock.Anything)
}

func TestHookAuth_WrongScheme(t *testing.T) {
	authSvc := new(mocks.MockHookAuthService)
	r := newAuthRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/hooks/url", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHookAuth_InvalidToken(t *testing.T) {
	authSvc := new(mocks.MockHookAuthService)
	authSvc.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized)
	r := newAuthRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/hooks/url", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
	authSvc.AssertExpectations(t)
}

func TestHookAuth_ValidToken(t *testing.T) {
	authSvc := new(mocks.MockHookAuthService)
	authSvc.On("ValidateToken", "good-token").Return(&service.HookClaims{Site: "blog.example.com"}, nil)
	r := newAuthRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/hooks/url", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"site":"blog.example.com"}`, w.Body.String())
}
