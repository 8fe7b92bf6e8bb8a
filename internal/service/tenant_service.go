package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// TenantFinder reads the tenant directory of record.
type TenantFinder interface {
	GetByTenantID(ctx context.Context, tenantID string) (*model.Tenant, error)
}

// TenantService resolves tenants through a Redis read-through cache.
// Cache failures degrade to the database and are never fatal.
type TenantService struct {
	repo TenantFinder
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewTenantService creates a new TenantService.
func NewTenantService(repo TenantFinder, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *TenantService {
	return &TenantService{
		repo: repo,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "tenant_directory").Logger(),
	}
}

// Lookup returns the tenant for tenantID. Unknown tenants yield the
// repository's not-found error and are not cached.
func (s *TenantService) Lookup(ctx context.Context, tenantID string) (*model.Tenant, error) {
	key := config.CacheKey.TenantKey(tenantID)

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var t model.Tenant
		if err := json.Unmarshal(data, &t); err == nil {
			return &t, nil
		}
		s.log.Warn().Str("tenant_id", tenantID).Msg("Discarding unreadable tenant cache entry")
	case !errors.Is(err, redis.Nil):
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("Tenant cache read failed")
	}

	t, err := s.repo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("lookup tenant: %w", err)
	}

	if payload, err := json.Marshal(t); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("Tenant cache write failed")
		}
	}
	return t, nil
}

// Invalidate drops the cached entry for tenantID.
func (s *TenantService) Invalidate(ctx context.Context, tenantID string) error {
	if err := s.rdb.Del(ctx, config.CacheKey.TenantKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("invalidate tenant: %w", err)
	}
	return nil
}
