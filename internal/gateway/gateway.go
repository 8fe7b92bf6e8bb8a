// Package gateway answers identity-scoped questions about school data. Every
// query is authorized by the rbac policy and runs inside the caller's tenant
// schema.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

const dateLayout = "2006-01-02"

// Store opens a tenant-scoped reader for the duration of fn.
type Store interface {
	WithTenant(ctx context.Context, tenant *model.Tenant, fn func(r repository.TenantReader) error) error
}

// TenantDirectory resolves a tenant id. Unknown tenants yield repository.ErrNotFound.
type TenantDirectory interface {
	Lookup(ctx context.Context, tenantID string) (*model.Tenant, error)
}

// Gateway is safe for concurrent use. It holds no per-request state.
type Gateway struct {
	store   Store
	tenants TenantDirectory
	policy  *rbac.Policy
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a Gateway. A non-positive timeout falls back to 10 seconds.
func New(store Store, tenants TenantDirectory, policy *rbac.Policy, timeout time.Duration, log zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		store:   store,
		tenants: tenants,
		policy:  policy,
		timeout: timeout,
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

// resolveStudent picks the student a request is about and authorizes it.
func (g *Gateway) resolveStudent(id *model.Identity, requested string) (string, error) {
	if id == nil {
		return "", ErrDenied
	}
	target := requested
	if target == "" {
		if id.Role != model.RoleStudent {
			return "", fmt.Errorf("%w: student_id", ErrMissingParameter)
		}
		target = id.StudentID
	}
	if !g.policy.CanAccessStudent(id, target) {
		return "", ErrDenied
	}
	return g.policy.ScopeFilters(id, rbac.Filters{StudentID: target}).StudentID, nil
}

// inTenant bounds ctx, resolves the caller's tenant and runs fn inside its schema.
func (g *Gateway) inTenant(ctx context.Context, id *model.Identity, op string, fn func(ctx context.Context, r repository.TenantReader) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tenant, err := g.tenants.Lookup(ctx, id.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDenied
		}
		return g.classify(ctx, op, err)
	}
	if !tenant.IsActive {
		return ErrDenied
	}

	err = g.store.WithTenant(ctx, tenant, func(r repository.TenantReader) error {
		return fn(ctx, r)
	})
	if err != nil {
		return g.classify(ctx, op, err)
	}
	return nil
}

func (g *Gateway) classify(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		g.log.Warn().Str("op", op).Dur("timeout", g.timeout).Msg("Query timed out")
		return ErrTimeout
	}
	g.log.Error().Err(err).Str("op", op).Msg("Tenant query failed")
	return fmt.Errorf("%s: %w", op, err)
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidParameter, field)
	}
	return &t, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
