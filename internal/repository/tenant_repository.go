package repository

import (
	"context"

	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// TenantRepository reads the tenant directory in the public schema.
type TenantRepository struct {
	db database.Querier
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db database.Querier) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetByTenantID retrieves a tenant by its public identifier.
func (r *TenantRepository) GetByTenantID(ctx context.Context, tenantID string) (*model.Tenant, error) {
	t := &model.Tenant{}
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, schema_name, name, is_active, created_at
		 FROM public.tenants WHERE tenant_id = $1`, tenantID,
	).Scan(&t.ID, &t.TenantID, &t.SchemaName, &t.Name, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}
