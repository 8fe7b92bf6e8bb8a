package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/response"
)

// RequirePermission checks the caller's role row in the catalog for perm.
func RequirePermission(catalog *rbac.Catalog, perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if !catalog.HasPermission(id.Role, perm) {
			response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}
		c.Next()
	}
}
