package handler

import (
	"net/http"

	"phoneinput_backend/internal/phonefield/service"
	"phoneinput_backend/internal/phonefield/transport"
	"phoneinput_backend/platform/httpkit"
	"phoneinput_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for phone fields
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new phone field handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes registers the stateless formatting routes
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/format", h.Format)
	rg.POST("/format/batch", h.FormatBatch)
	rg.GET("/plans", h.ListPlans)
}

// RegisterRoutes registers the authenticated field session and saved number routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/fields", h.CreateField)
	rg.GET("/fields/:id", h.GetField)
	rg.POST("/fields/:id/keystrokes", h.Keystroke)
	rg.POST("/fields/:id/changes", h.Change)
	rg.POST("/fields/:id/edits", h.Edit)
	rg.POST("/fields/:id/commit", h.Commit)
	rg.PUT("/fields/:id/value", h.Sync)
	rg.DELETE("/fields/:id", h.DeleteField)
	rg.GET("/saved", h.ListSaved)
	rg.GET("/saved/:id", h.GetSaved)
}

func (h *Handler) Format(c *gin.Context) {
	var req transport.FormatRequest
	if !h.bindJSON(c, &req) {
		return
	}
	httpkit.OK(c, h.svc.Format(req))
}

func (h *Handler) FormatBatch(c *gin.Context) {
	var req transport.FormatBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	httpkit.OK(c, h.svc.FormatBatch(req))
}

func (h *Handler) ListPlans(c *gin.Context) {
	httpkit.OK(c, h.svc.ListPlans())
}

func (h *Handler) CreateField(c *gin.Context) {
	userID, ok := mustGetUserID(c)
	if !ok {
		return
	}
	var req transport.CreateFieldRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.CreateField(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) GetField(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetField(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Keystroke(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	var req transport.KeystrokeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Keystroke(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Change(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	var req transport.ChangeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Change(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Edit(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	var req transport.EditRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Edit(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Commit(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	var req transport.CommitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Commit(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Sync(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	var req transport.SyncRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Sync(c.Request.Context(), userID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteField(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteField(c.Request.Context(), userID, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSaved(c *gin.Context) {
	userID, ok := mustGetUserID(c)
	if !ok {
		return
	}
	var req transport.ListSavedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListSaved(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetSaved(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetSaved(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

// mustGetUserID extracts the user ID from identity.
func mustGetUserID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	return identity.UserID(), true
}

func userAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := mustGetUserID(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return userID, id, true
}
