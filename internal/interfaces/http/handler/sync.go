package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	syncsvc "github.com/storehub/backend/internal/application/sync"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// SyncHandler handles on-demand ledger reconciliation
type SyncHandler struct {
	BaseHandler
	sync *syncsvc.Service
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *syncsvc.Service) *SyncHandler {
	return &SyncHandler{sync: syncService}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sync", middleware.RequireCapability(func(p identity.Permissions) bool {
		return p.SyncOrders || p.IsAdmin
	}))
	g.POST("", h.SyncAll)
	g.POST("/:storeId", h.SyncStore)
}

// SyncAll reconciles every registered store and reports per-store results
func (h *SyncHandler) SyncAll(c *gin.Context) {
	report, err := h.sync.SyncAll(c.Request.Context())
	if err != nil {
		// The report still carries the per-store failures.
		if errors.Is(err, syncsvc.ErrAllStoresFailed) {
			h.Success(c, report)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// SyncStore reconciles one store
func (h *SyncHandler) SyncStore(c *gin.Context) {
	result, err := h.sync.SyncStore(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
