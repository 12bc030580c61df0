package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wps3sync/internal/domain"
	"wps3sync/internal/middleware"
	"wps3sync/internal/service"
)

const (
	maxHookBodyBytes = 1 << 20
	headerSyncKey    = "X-Sync-Key"
)

// HookHandler serves the host's media lifecycle hooks.
type HookHandler struct {
	syncService service.SyncService
}

// NewHookHandler creates a new HookHandler.
func NewHookHandler(syncService service.SyncService) *HookHandler {
	return &HookHandler{syncService: syncService}
}

type deleteHookRequest struct {
	AttachmentID int64 `json:"attachment_id" binding:"required"`
}

type sizesHookRequest struct {
	Sizes json.RawMessage `json:"sizes"`
}

// sizeVariants decodes the sizes field. PHP encodes an empty array as [],
// so [] and null are read as no sizes.
func (r sizesHookRequest) sizeVariants() (domain.SizeVariants, error) {
	raw := bytes.TrimSpace(r.Sizes)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.SizeVariants{}, nil
	}
	var empty []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &empty); err != nil || len(empty) > 0 {
			return nil, domain.ErrInvalidPayload
		}
		return domain.SizeVariants{}, nil
	}
	var sizes domain.SizeVariants
	if err := json.Unmarshal(raw, &sizes); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	return sizes, nil
}

type urlHookRequest struct {
	URL          string `json:"url" binding:"required"`
	AttachmentID int64  `json:"attachment_id"`
}

// Upload handles POST /api/v1/hooks/upload. The request body is echoed back
// byte for byte so the host's filter chain receives its metadata unchanged;
// the sync outcome travels in the X-Sync-Status header.
func (h *HookHandler) Upload(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxHookBodyBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "could not read request body")
		return
	}

	var meta domain.UploadMetadata
	if err := json.Unmarshal(body, &meta); err != nil || meta.File == "" || meta.URL == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "upload payload needs file and url")
		return
	}

	_, result := h.syncService.HandleUpload(c.Request.Context(), meta)
	if result.Err != nil {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] hookHandler.Upload: %s not synced: %v", requestID, meta.File, result.Err)
	}

	c.Header(middleware.HeaderSyncStatus, string(result.Status()))
	if result.Key != "" {
		c.Header(headerSyncKey, result.Key)
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Delete handles POST /api/v1/hooks/delete. Storage failures are reported in
// the body with status "failed"; lookup failures map to 4xx.
func (h *HookHandler) Delete(c *gin.Context) {
	var req deleteHookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "attachment_id is required")
		return
	}

	result := h.syncService.HandleDelete(c.Request.Context(), req.AttachmentID)
	c.Header(middleware.HeaderSyncStatus, string(result.Status()))

	if result.Err != nil &&
		!errors.Is(result.Err, domain.ErrStorageOperation) &&
		!errors.Is(result.Err, domain.ErrStorageUnavailable) {
		HandleError(c, result.Err)
		return
	}

	RespondOK(c, gin.H{
		"attachment_id": req.AttachmentID,
		"key":           result.Key,
		"status":        result.Status(),
	})
}

// Sizes handles POST /api/v1/hooks/sizes and returns the size variants the
// host should generate.
func (h *HookHandler) Sizes(c *gin.Context) {
	var req sizesHookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "sizes must be an object")
		return
	}
	variants, err := req.sizeVariants()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "sizes must be an object")
		return
	}

	sizes := h.syncService.SuppressSizeVariants(variants)
	if sizes == nil {
		sizes = domain.SizeVariants{}
	}
	c.JSON(http.StatusOK, gin.H{"sizes": sizes})
}

// URL handles POST /api/v1/hooks/url and returns the URL the host should render.
func (h *HookHandler) URL(c *gin.Context) {
	var req urlHookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "url is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": h.syncService.RewriteURL(c.Request.Context(), req.URL, req.AttachmentID),
	})
}
