package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wps3sync/internal/config"
	"wps3sync/internal/handler"
	"wps3sync/internal/middleware"
	"wps3sync/internal/router"
	"wps3sync/internal/service"
	"wps3sync/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(authSvc service.HookAuthService, limiter *middleware.RateLimiter) (*gin.Engine, *mocks.MockSyncService) {
	syncSvc := new(mocks.MockSyncService)
	storage := new(mocks.MockObjectStorage)
	r := router.Setup(authSvc, limiter, handler.NewHookHandler(syncSvc), handler.NewHealthHandler(storage, nil, "b"))
	return r, syncSvc
}

func postURLHook(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/hooks/url", bytes.NewReader([]byte(`{"url":"http://site/wp-content/uploads/x.png"}`)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Liveness(t *testing.T) {
	r, _ := newEngine(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_HooksRequireToken(t *testing.T) {
	authSvc := service.NewHookAuthService(config.HooksConfig{Secret: "router-secret", Issuer: "wps3sync", TokenTTL: time.Hour})
	r, syncSvc := newEngine(authSvc, nil)
	syncSvc.On("RewriteURL", mock.Anything, "http://site/wp-content/uploads/x.png", int64(0)).Return("https://cdn/x")

	assert.Equal(t, http.StatusUnauthorized, postURLHook(r, "").Code)

	token, _, err := authSvc.IssueToken("blog", 0)
	require.NoError(t, err)
	w := postURLHook(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://cdn/x"}`, w.Body.String())
}

func TestRouter_HooksOpenWithoutSecret(t *testing.T) {
	r, syncSvc := newEngine(nil, nil)
	syncSvc.On("RewriteURL", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/x")

	assert.Equal(t, http.StatusOK, postURLHook(r, "").Code)
}

func TestRouter_HooksRateLimited(t *testing.T) {
	r, syncSvc := newEngine(nil, middleware.NewRateLimiter(1, time.Minute))
	syncSvc.On("RewriteURL", mock.Anything, mock.Anything, mock.Anything).Return("https://cdn/x")

	assert.Equal(t, http.StatusOK, postURLHook(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, postURLHook(r, "").Code)
}
