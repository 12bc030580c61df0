package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wps3sync/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storage  port.ObjectStorage
	resolver port.AttachmentResolver
	bucket   string
}

// NewHealthHandler creates a new HealthHandler. resolver may be nil when no
// WordPress database is configured.
func NewHealthHandler(storage port.ObjectStorage, resolver port.AttachmentResolver, bucket string) *HealthHandler {
	return &HealthHandler{storage: storage, resolver: resolver, bucket: bucket}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.storage.Ping(ctx, h.bucket); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "bucket not reachable"})
		return
	}
	if h.resolver != nil {
		if err := h.resolver.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
