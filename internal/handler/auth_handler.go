package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/middleware"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/response"
	"github.com/stemsi/schoolbot-backend/internal/service"
	"github.com/stemsi/schoolbot-backend/internal/validator"
)

// Authenticator exchanges login credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

// AuthHandler handles authentication and identity endpoints.
type AuthHandler struct {
	auth    Authenticator
	catalog *rbac.Catalog
	log     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator, catalog *rbac.Catalog, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		catalog: catalog,
		log:     log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Validates tenant, email and password, returns a signed identity token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Str("tenant_id", req.TenantID).Msg("Login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Me godoc
// GET /api/v1/me
// Returns the identity carried by the caller's token.
func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user_id":    id.UserID,
		"email":      id.Email,
		"role":       id.Role,
		"tenant_id":  id.TenantID,
		"student_id": id.StudentID,
		"teacher_id": id.TeacherID,
		"expires_at": id.ExpiresAt,
	})
}

// Permissions godoc
// GET /api/v1/permissions
// Returns the caller's role and the permissions granted to it.
func (h *AuthHandler) Permissions(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"role":        id.Role,
		"permissions": h.catalog.PermissionsFor(id.Role),
	})
}
