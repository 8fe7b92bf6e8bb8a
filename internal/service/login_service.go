package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/gateway"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

// LoginService exchanges tenant credentials for a signed identity token.
type LoginService struct {
	tenants gateway.TenantDirectory
	store   gateway.Store
	auth    *AuthService
	log     zerolog.Logger
}

// NewLoginService creates a new LoginService.
func NewLoginService(tenants gateway.TenantDirectory, store gateway.Store, auth *AuthService, log zerolog.Logger) *LoginService {
	return &LoginService{tenants: tenants, store: store, auth: auth, log: log}
}

// Login verifies the password of an active user in an active tenant. Every
// refusal is ErrInvalidCredentials so callers cannot probe for accounts.
func (s *LoginService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	tenant, err := s.tenants.Lookup(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive {
		return nil, ErrInvalidCredentials
	}

	var (
		user     *model.User
		children []string
	)
	err = s.store.WithTenant(ctx, tenant, func(r repository.TenantReader) error {
		u, err := r.UserByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		user = u
		if u.Role == model.RoleParent.String() {
			children, err = r.ChildrenOfParent(ctx, u.Email)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := model.ParseRole(user.Role)
	if err != nil {
		s.log.Warn().Str("user_id", user.UserID).Str("tenant_id", tenant.TenantID).Msg("User has unknown role")
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.auth.IssueToken(IssueParams{
		UserID:          user.UserID,
		Email:           user.Email,
		Role:            role,
		TenantID:        tenant.TenantID,
		SchemaName:      tenant.SchemaName,
		StudentID:       user.StudentID,
		TeacherID:       user.TeacherID,
		ChildStudentIDs: children,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.UserID).
		Str("tenant_id", tenant.TenantID).
		Str("role", role.String()).
		Msg("User logged in")

	return &model.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.auth.cfg.JWTExpiry.Seconds()),
		Role:      role,
	}, nil
}
