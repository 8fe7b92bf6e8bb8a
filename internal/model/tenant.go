package model

import "time"

// Tenant is one school. All of its data lives in the Postgres schema SchemaName.
type Tenant struct {
	ID         int       `json:"id"`
	TenantID   string    `json:"tenant_id"`
	SchemaName string    `json:"schema_name"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
