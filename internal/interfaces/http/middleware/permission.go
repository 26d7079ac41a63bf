package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identitysvc "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/domain/identity"
	"github.com/storehub/backend/internal/interfaces/http/dto"
)

// PermissionsKey is the gin context key for the resolved permission set.
const PermissionsKey = "permissions"

// ResolvePermissions loads the authenticated user's permission set once
// per request. Must run after JWTAuthMiddleware.
func ResolvePermissions(svc *identitysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(GetJWTUserID(c))
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Malformed user id in token")
			return
		}

		u, err := svc.GetUser(c.Request.Context(), id)
		if err != nil {
			// The token outlived the account.
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Account no longer exists")
			return
		}

		c.Set(PermissionsKey, svc.PermissionsFor(c.Request.Context(), u))
		c.Next()
	}
}

// GetPermissions returns the resolved permission set, or the zero set
// when resolution did not run.
func GetPermissions(c *gin.Context) identity.Permissions {
	if v, ok := c.Get(PermissionsKey); ok {
		if perms, ok := v.(identity.Permissions); ok {
			return perms
		}
	}
	return identity.Permissions{}
}

// RequireTabView rejects users whose role hides the given tab.
func RequireTabView(tab identity.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPermissions(c).CanView(tab) {
			abortForbidden(c, "Tab not visible for this role")
			return
		}
		c.Next()
	}
}

// RequireTabEdit rejects users whose role does not allow mutations on the
// given tab.
func RequireTabEdit(tab identity.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPermissions(c).CanEdit(tab) {
			abortForbidden(c, "Tab is read-only for this role")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPermissions(c).IsAdmin {
			abortForbidden(c, "Admin access required")
			return
		}
		c.Next()
	}
}

// RequireCapability gates a route on one of the coarse capability flags.
func RequireCapability(check func(identity.Permissions) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !check(GetPermissions(c)) {
			abortForbidden(c, "Operation not permitted for this role")
			return
		}
		c.Next()
	}
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden, message))
}
