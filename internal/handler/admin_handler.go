package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/middleware"
	"github.com/stemsi/schoolbot-backend/internal/response"
)

// TenantCache drops cached tenant directory entries.
type TenantCache interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// AdminHandler handles tenant administration endpoints.
type AdminHandler struct {
	tenants TenantCache
	log     zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(tenants TenantCache, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		tenants: tenants,
		log:     log.With().Str("component", "admin_handler").Logger(),
	}
}

// RefreshTenantCache godoc
// POST /api/v1/admin/tenant/refresh-cache
// Drops the caller's tenant from the directory cache so the next request
// reads it from the database.
func (h *AdminHandler) RefreshTenantCache(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.tenants.Invalidate(c.Request.Context(), id.TenantID); err != nil {
		h.log.Error().Err(err).Str("tenant_id", id.TenantID).Msg("Tenant cache refresh failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable)
		return
	}

	h.log.Info().Str("tenant_id", id.TenantID).Str("user_id", id.UserID).Msg("Tenant cache refreshed")
	response.Success(c, http.StatusOK, gin.H{"tenant_id": id.TenantID, "refreshed": true})
}
