package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/bulkops"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// BulkHandler handles cross-store batch mutations
type BulkHandler struct {
	BaseHandler
	bulk *bulkops.Coordinator
}

// NewBulkHandler creates a new bulk mutation handler
func NewBulkHandler(coordinator *bulkops.Coordinator) *BulkHandler {
	return &BulkHandler{bulk: coordinator}
}

// RegisterRoutes registers the batch mutation routes
func (h *BulkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders/bulk", middleware.RequireTabEdit(identity.TabOrders))
	g.POST("/status", h.SetStatus)

	rg.POST("/trashed-orders/purge", middleware.RequireTabEdit(identity.TabTrashed), h.PermanentDelete)
}

// BulkStatusRequest applies one status to a set of orders
type BulkStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Status string   `json:"status" binding:"required,orderstatus"`
}

// SetStatus dispatches one status batch per owning store
func (h *BulkHandler) SetStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.bulk.SetStatus(c.Request.Context(), req.IDs, order.Status(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PermanentDelete erases trashed orders order by order. A cancelled
// request reports the untouched ids so the client can resume.
func (h *BulkHandler) PermanentDelete(c *gin.Context) {
	var req OrderSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.bulk.PermanentDelete(c.Request.Context(), req.IDs)
	if err != nil && !errors.Is(err, context.Canceled) {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
