package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	productsvc "github.com/storehub/backend/internal/application/products"
	"github.com/storehub/backend/internal/domain/catalog"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles cross-store product HTTP requests
type ProductHandler struct {
	BaseHandler
	products *productsvc.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *productsvc.Service) *ProductHandler {
	return &ProductHandler{products: productService}
}

// RegisterRoutes registers the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products", middleware.RequireTabView(identity.TabProducts))
	g.GET("", h.FetchAll)

	edit := g.Group("", middleware.RequireTabEdit(identity.TabProducts))
	edit.POST("/refresh", h.Refresh)
	edit.POST("/batch", h.BatchUpdate)
	edit.POST("/batch-delete", h.BatchDelete)
}

// ProductPatchRequest is one product edit in a batch
type ProductPatchRequest struct {
	ID           int64  `json:"id" binding:"required"`
	StoreID      string `json:"storeId" binding:"required"`
	Name         string `json:"name"`
	RegularPrice string `json:"regularPrice"`
	SalePrice    string `json:"salePrice"`
	StockStatus  string `json:"stockStatus"`
}

// ProductKeyRequest identifies one product in its owning store
type ProductKeyRequest struct {
	ID      int64  `json:"id" binding:"required"`
	StoreID string `json:"storeId" binding:"required"`
}

// BatchCountResponse reports per-item batch outcome counts
type BatchCountResponse struct {
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// FetchAll returns every store's products, served from the session cache
// when warm
func (h *ProductHandler) FetchAll(c *gin.Context) {
	result, err := h.products.FetchAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh drops the session cache so the next fetch hits the stores
func (h *ProductHandler) Refresh(c *gin.Context) {
	if err := h.products.Refresh(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BatchUpdate pushes product edits grouped by owning store
func (h *ProductHandler) BatchUpdate(c *gin.Context) {
	var req struct {
		Products []ProductPatchRequest `json:"products" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	patches := make([]catalog.Patch, 0, len(req.Products))
	for _, p := range req.Products {
		patch := catalog.Patch{ID: p.ID, StoreID: p.StoreID, Name: p.Name}
		if p.RegularPrice != "" {
			d, err := decimal.NewFromString(p.RegularPrice)
			if err != nil {
				h.BadRequest(c, "Invalid regular price")
				return
			}
			patch.RegularPrice = d
		}
		if p.SalePrice != "" {
			d, err := decimal.NewFromString(p.SalePrice)
			if err != nil {
				h.BadRequest(c, "Invalid sale price")
				return
			}
			patch.SalePrice = d
		}
		if p.StockStatus != "" {
			status := catalog.StockStatus(p.StockStatus)
			if !status.IsValid() {
				h.BadRequest(c, "Unknown stock status")
				return
			}
			patch.StockStatus = status
		}
		patches = append(patches, patch)
	}

	success, failed, err := h.products.BatchUpdate(c.Request.Context(), patches)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BatchCountResponse{SuccessCount: success, ErrorCount: failed})
}

// BatchDelete removes products grouped by owning store
func (h *ProductHandler) BatchDelete(c *gin.Context) {
	var req struct {
		Products []ProductKeyRequest `json:"products" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	keys := make([]catalog.Key, 0, len(req.Products))
	for _, p := range req.Products {
		keys = append(keys, catalog.Key{StoreID: p.StoreID, ID: p.ID})
	}

	success, failed, err := h.products.BatchDelete(c.Request.Context(), keys)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BatchCountResponse{SuccessCount: success, ErrorCount: failed})
}
