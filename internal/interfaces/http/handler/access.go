package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identitysvc "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
)

// AccessHandler handles user, role and audit management
type AccessHandler struct {
	BaseHandler
	identity *identitysvc.Service
}

// NewAccessHandler creates a new access management handler
func NewAccessHandler(identityService *identitysvc.Service) *AccessHandler {
	return &AccessHandler{identity: identityService}
}

// RegisterRoutes registers the access management routes. Everything here
// is admin-only.
func (h *AccessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/access", middleware.RequireAdmin())

	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.PATCH("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)

	g.GET("/roles", h.ListRoles)
	g.POST("/roles", h.CreateRole)
	g.PUT("/roles/:id", h.UpdateRole)
	g.DELETE("/roles/:id", h.DeleteRole)

	g.GET("/audit", h.AuditLog)
}

// UserResponse is the wire shape of one account. The password hash never
// leaves the server.
type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	RoleID   *uuid.UUID `json:"roleId,omitempty"`
	IsAdmin  bool       `json:"isAdmin"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		RoleID:   u.RoleID,
		IsAdmin:  u.IsAdmin,
	}
}

// CreateUserRequest is the account creation payload
type CreateUserRequest struct {
	Username string     `json:"username" binding:"required,min=3"`
	Password string     `json:"password" binding:"required"`
	RoleID   *uuid.UUID `json:"roleId"`
	IsAdmin  bool       `json:"isAdmin"`
}

// UpdateUserRequest is the account update payload
type UpdateUserRequest struct {
	RoleID      *uuid.UUID `json:"roleId"`
	IsAdmin     bool       `json:"isAdmin"`
	NewPassword string     `json:"newPassword"`
}

// RoleRequest is the role create/update payload
type RoleRequest struct {
	Name        string               `json:"name" binding:"required"`
	Permissions identity.Permissions `json:"permissions"`
}

// ListUsers returns every console account
func (h *AccessHandler) ListUsers(c *gin.Context) {
	users, err := h.identity.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	h.BaseHandler.List(c, resp, len(resp))
}

// CreateUser registers a console account
func (h *AccessHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	u, err := h.identity.CreateUser(c.Request.Context(), middleware.GetJWTUsername(c),
		req.Username, req.Password, req.RoleID, req.IsAdmin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toUserResponse(u))
}

// UpdateUser changes an account's role, admin flag or password
func (h *AccessHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	u, err := h.identity.UpdateUser(c.Request.Context(), middleware.GetJWTUsername(c),
		id, req.RoleID, req.IsAdmin, req.NewPassword)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(u))
}

// DeleteUser removes an account
func (h *AccessHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user id")
		return
	}

	if err := h.identity.DeleteUser(c.Request.Context(), middleware.GetJWTUsername(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListRoles returns every role
func (h *AccessHandler) ListRoles(c *gin.Context) {
	roles, err := h.identity.ListRoles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BaseHandler.List(c, roles, len(roles))
}

// CreateRole adds a named permission set
func (h *AccessHandler) CreateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	r, err := h.identity.CreateRole(c.Request.Context(), middleware.GetJWTUsername(c), req.Name, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

// UpdateRole replaces a role's name and permission set
func (h *AccessHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role id")
		return
	}

	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	r, err := h.identity.UpdateRole(c.Request.Context(), middleware.GetJWTUsername(c), id, req.Name, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// DeleteRole removes a role
func (h *AccessHandler) DeleteRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role id")
		return
	}

	if err := h.identity.DeleteRole(c.Request.Context(), middleware.GetJWTUsername(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AuditLog lists the most recent access-control changes
func (h *AccessHandler) AuditLog(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.identity.AuditLog(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BaseHandler.List(c, entries, len(entries))
}
