package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/dashboard"
	"github.com/storehub/backend/internal/domain/settings"
)

// SettingsHandler handles dashboard preference requests
type SettingsHandler struct {
	BaseHandler
	dashboard *dashboard.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(dashboardService *dashboard.Service) *SettingsHandler {
	return &SettingsHandler{dashboard: dashboardService}
}

// RegisterRoutes registers the settings routes. Preferences are shared by
// every authenticated user, so no tab gate applies.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/settings")
	g.GET("/screen-options", h.GetScreenOptions)
	g.PUT("/screen-options", h.SaveScreenOptions)
	g.GET("/tab-order", h.GetTabOrder)
	g.PUT("/tab-order", h.SaveTabOrder)
}

// GetScreenOptions returns the saved column toggles
func (h *SettingsHandler) GetScreenOptions(c *gin.Context) {
	opts, err := h.dashboard.ScreenOptions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, opts)
}

// SaveScreenOptions persists the column toggles
func (h *SettingsHandler) SaveScreenOptions(c *gin.Context) {
	var opts settings.ScreenOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.dashboard.SaveScreenOptions(c.Request.Context(), opts); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, opts)
}

// GetTabOrder returns the saved tab ordering
func (h *SettingsHandler) GetTabOrder(c *gin.Context) {
	order, err := h.dashboard.TabOrder(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// TabOrderRequest is the tab ordering payload
type TabOrderRequest struct {
	Tabs []string `json:"tabs" binding:"required,min=1"`
}

// SaveTabOrder persists the tab ordering
func (h *SettingsHandler) SaveTabOrder(c *gin.Context) {
	var req TabOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.dashboard.SaveTabOrder(c.Request.Context(), req.Tabs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req.Tabs)
}
