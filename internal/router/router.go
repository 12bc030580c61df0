package router

import (
	"log"

	"github.com/gin-gonic/gin"

	"wps3sync/internal/handler"
	"wps3sync/internal/middleware"
	"wps3sync/internal/service"
)

// Setup configures the Gin engine with all routes and middleware. authSvc and
// limiter may be nil to leave hook routes unauthenticated or unthrottled.
func Setup(
	authSvc service.HookAuthService,
	limiter *middleware.RateLimiter,
	hookH *handler.HookHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	hooks := r.Group("/api/v1/hooks")
	if limiter != nil {
		hooks.Use(limiter.Middleware())
	}
	if authSvc != nil {
		hooks.Use(middleware.HookAuth(authSvc))
	} else {
		log.Printf("router: hook routes are unauthenticated (hooks.secret not set)")
	}

	hooks.POST("/upload", hookH.Upload)
	hooks.POST("/delete", hookH.Delete)
	hooks.POST("/sizes", hookH.Sizes)
	hooks.POST("/url", hookH.URL)

	return r
}
