package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storehub/backend/internal/infrastructure/config"
)

// SystemHandler serves health and version endpoints
type SystemHandler struct {
	BaseHandler
	cfg *config.Config
	db  *gorm.DB
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config, db *gorm.DB) *SystemHandler {
	return &SystemHandler{cfg: cfg, db: db}
}

// RegisterRoutes registers the public system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Status   string `json:"status"`
	App      string `json:"app"`
	Env      string `json:"env"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

// Health reports whether the service and its database are reachable
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		App:      h.cfg.App.Name,
		Env:      h.cfg.App.Env,
		Time:     time.Now().UTC().Format(time.RFC3339),
		Database: "up",
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
