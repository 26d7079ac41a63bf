package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/orders"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/order"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order ledger HTTP requests
type OrderHandler struct {
	BaseHandler
	orders *orders.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *orders.Service) *OrderHandler {
	return &OrderHandler{orders: orderService}
}

// RegisterRoutes registers the order ledger routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders", middleware.RequireTabView(identity.TabOrders))
	g.GET("", h.ListActive)
	g.GET("/:id", h.Get)

	edit := g.Group("", middleware.RequireTabEdit(identity.TabOrders))
	edit.PATCH("/:id", h.Patch)
	edit.POST("/trash", h.Trash)

	trashed := rg.Group("/trashed-orders", middleware.RequireTabView(identity.TabTrashed))
	trashed.GET("", h.ListTrashed)
	trashed.POST("/restore", middleware.RequireTabEdit(identity.TabTrashed), h.Restore)
}

// OrderResponse is the wire shape of one ledger order
type OrderResponse struct {
	ID                 string            `json:"id"`
	StoreID            string            `json:"storeId"`
	StoreName          string            `json:"storeName"`
	Status             string            `json:"status"`
	DateCreated        time.Time         `json:"dateCreated"`
	Billing            order.Address     `json:"billing"`
	Shipping           order.Address     `json:"shipping"`
	LineItems          []order.LineItem  `json:"lineItems"`
	MetaData           []order.MetaEntry `json:"metaData,omitempty"`
	CustomerNote       string            `json:"customerNote,omitempty"`
	Total              string            `json:"total"`
	Currency           string            `json:"currency"`
	PaymentMethod      string            `json:"paymentMethod,omitempty"`
	PaymentMethodTitle string            `json:"paymentMethodTitle,omitempty"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:                 o.ID,
		StoreID:            o.StoreID,
		StoreName:          o.StoreName,
		Status:             o.Status.String(),
		DateCreated:        o.DateCreated,
		Billing:            o.Billing,
		Shipping:           o.Shipping,
		LineItems:          o.LineItems,
		MetaData:           o.MetaData,
		CustomerNote:       o.CustomerNote,
		Total:              o.Total.StringFixed(2),
		Currency:           o.Currency,
		PaymentMethod:      o.PaymentMethod,
		PaymentMethodTitle: o.PaymentMethodTitle,
	}
}

func toOrderResponses(list []order.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toOrderResponse(&list[i]))
	}
	return resp
}

// OrderSelectionRequest names a set of orders by id
type OrderSelectionRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ListActive returns every order except trashed ones
func (h *OrderHandler) ListActive(c *gin.Context) {
	list, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := toOrderResponses(list)
	h.BaseHandler.List(c, resp, len(resp))
}

// ListTrashed returns the soft-deleted orders
func (h *OrderHandler) ListTrashed(c *gin.Context) {
	list, err := h.orders.ListTrashed(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := toOrderResponses(list)
	h.BaseHandler.List(c, resp, len(resp))
}

// Get returns one order
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(o))
}

// Patch merges a field patch into one order, writing through to the
// owning store first
func (h *OrderHandler) Patch(c *gin.Context) {
	var patch order.FieldPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.ValidationError(c, err)
		return
	}
	if len(patch) == 0 {
		h.BadRequest(c, "Patch body is empty")
		return
	}

	o, err := h.orders.Patch(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if orders.IsNotFound(err) {
			h.NotFound(c, "Order not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(o))
}

// Trash soft-deletes the selected orders
func (h *OrderHandler) Trash(c *gin.Context) {
	var req OrderSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.orders.Trash(c.Request.Context(), req.IDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore moves trashed orders back into circulation
func (h *OrderHandler) Restore(c *gin.Context) {
	var req OrderSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.orders.Restore(c.Request.Context(), req.IDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
