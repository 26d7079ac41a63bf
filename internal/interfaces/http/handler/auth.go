package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identitysvc "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login and session introspection
type AuthHandler struct {
	BaseHandler
	identity *identitysvc.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *identitysvc.Service) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes registers the routes requiring a session
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	session, err := h.identity.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Me returns the authenticated user and their effective permissions
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := uuid.Parse(middleware.GetJWTUserID(c))
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	u, err := h.identity.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"userId":      u.ID,
		"username":    u.Username,
		"isAdmin":     u.IsAdmin,
		"permissions": h.identity.PermissionsFor(c.Request.Context(), u),
	})
}

// protectedAuthRoutes adapts RegisterProtectedRoutes to the router's
// registrar interface.
type protectedAuthRoutes struct {
	handler *AuthHandler
}

// ProtectedAuthRoutes wraps the session routes for the guarded group.
func ProtectedAuthRoutes(h *AuthHandler) interface {
	RegisterRoutes(rg *gin.RouterGroup)
} {
	return &protectedAuthRoutes{handler: h}
}

// RegisterRoutes implements the registrar interface.
func (p *protectedAuthRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	p.handler.RegisterProtectedRoutes(rg)
}
