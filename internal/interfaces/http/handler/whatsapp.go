package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/whatsapp"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// WhatsAppHandler handles manually captured orders awaiting promotion
type WhatsAppHandler struct {
	BaseHandler
	whatsapp *whatsapp.Service
}

// NewWhatsAppHandler creates a new manual order handler
func NewWhatsAppHandler(whatsappService *whatsapp.Service) *WhatsAppHandler {
	return &WhatsAppHandler{whatsapp: whatsappService}
}

// RegisterRoutes registers the manual order routes
func (h *WhatsAppHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/whatsapp-orders", middleware.RequireTabView(identity.TabWhatsApp))
	g.GET("", h.List)

	edit := g.Group("", middleware.RequireTabEdit(identity.TabWhatsApp))
	edit.POST("", h.Stage)
	edit.PUT("/:id", h.Update)
	edit.DELETE("/:id", h.Discard)
	edit.POST("/:id/promote", h.Promote)
}

// StagedOrderRequest is the staging payload
type StagedOrderRequest struct {
	Ref           string `json:"ref"`
	Name          string `json:"name" binding:"required"`
	Mobile        string `json:"mobile"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Items         string `json:"items"`
	Price         string `json:"price"`
	TotalPayment  string `json:"totalPayment"`
	Note          string `json:"note"`
	ImportantNote string `json:"importantNote"`
	Date          string `json:"date"`
}

func (r *StagedOrderRequest) toDomain(id string) *order.StagedOrder {
	return &order.StagedOrder{
		ID:            id,
		Ref:           r.Ref,
		Name:          r.Name,
		Mobile:        r.Mobile,
		Address:       r.Address,
		City:          r.City,
		Items:         r.Items,
		Price:         r.Price,
		TotalPayment:  r.TotalPayment,
		Note:          r.Note,
		ImportantNote: r.ImportantNote,
		Date:          r.Date,
	}
}

// List returns every staged order
func (h *WhatsAppHandler) List(c *gin.Context) {
	list, err := h.whatsapp.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BaseHandler.List(c, list, len(list))
}

// Stage stores a captured order for later review
func (h *WhatsAppHandler) Stage(c *gin.Context) {
	var req StagedOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	staged, err := h.whatsapp.Stage(c.Request.Context(), req.toDomain(""))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, staged)
}

// Update overwrites a staged order in place
func (h *WhatsAppHandler) Update(c *gin.Context) {
	var req StagedOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	staged := req.toDomain(c.Param("id"))
	if err := h.whatsapp.Update(c.Request.Context(), staged); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staged)
}

// Discard drops a staged order without promoting it
func (h *WhatsAppHandler) Discard(c *gin.Context) {
	if err := h.whatsapp.Discard(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Promote converts a staged order into a ledger order
func (h *WhatsAppHandler) Promote(c *gin.Context) {
	promoted, err := h.whatsapp.Promote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toOrderResponse(promoted))
}
