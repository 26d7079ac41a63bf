package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storehub/backend/internal/application/stores"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/domain/store"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// StoreHandler handles store registry HTTP requests
type StoreHandler struct {
	BaseHandler
	stores *stores.Service
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *stores.Service) *StoreHandler {
	return &StoreHandler{stores: storeService}
}

// RegisterRoutes registers the store registry routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/stores", middleware.RequireTabView(identity.TabStores))
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	edit := g.Group("", middleware.RequireTabEdit(identity.TabStores))
	edit.POST("", middleware.RequireCapability(func(p identity.Permissions) bool {
		return p.AddStore || p.IsAdmin
	}), h.Add)
	edit.PATCH("/:id", h.Update)
	edit.DELETE("/:id", h.Remove)
}

// StoreResponse is the wire shape of one registered store. Credentials are
// never echoed back.
type StoreResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Connected bool   `json:"connected"`
	LastSync  string `json:"lastSync,omitempty"`
}

func toStoreResponse(st *store.Store) StoreResponse {
	resp := StoreResponse{
		ID:        st.ID,
		Name:      st.Name,
		URL:       st.URL,
		Connected: st.Connected,
	}
	if st.LastSync != nil {
		resp.LastSync = st.LastSync.UTC().Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// AddStoreRequest is the store registration payload
type AddStoreRequest struct {
	Name           string `json:"name" binding:"required"`
	URL            string `json:"url" binding:"required"`
	ConsumerKey    string `json:"consumerKey" binding:"required"`
	ConsumerSecret string `json:"consumerSecret" binding:"required"`
}

// UpdateStoreRequest is the partial store update payload
type UpdateStoreRequest struct {
	Name           *string `json:"name"`
	URL            *string `json:"url"`
	ConsumerKey    *string `json:"consumerKey"`
	ConsumerSecret *string `json:"consumerSecret"`
}

// List returns every registered store
func (h *StoreHandler) List(c *gin.Context) {
	all, err := h.stores.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]StoreResponse, 0, len(all))
	for i := range all {
		resp = append(resp, toStoreResponse(&all[i]))
	}
	h.BaseHandler.List(c, resp, len(resp))
}

// Get returns one store
func (h *StoreHandler) Get(c *gin.Context) {
	st, err := h.stores.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStoreResponse(st))
}

// Add registers a store after probing it with the submitted credentials
func (h *StoreHandler) Add(c *gin.Context) {
	var req AddStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	st, err := h.stores.Add(c.Request.Context(), req.Name, req.URL, req.ConsumerKey, req.ConsumerSecret)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toStoreResponse(st))
}

// Update applies a partial update, re-probing when credentials change
func (h *StoreHandler) Update(c *gin.Context) {
	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	st, err := h.stores.Update(c.Request.Context(), c.Param("id"), store.Update{
		Name:           req.Name,
		URL:            req.URL,
		ConsumerKey:    req.ConsumerKey,
		ConsumerSecret: req.ConsumerSecret,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStoreResponse(st))
}

// Remove deletes a store and every ledger order it owns
func (h *StoreHandler) Remove(c *gin.Context) {
	if err := h.stores.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
