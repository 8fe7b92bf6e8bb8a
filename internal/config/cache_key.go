package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TenantKey returns the cache key for a tenant directory entry
func (r *CacheKeyStruct) TenantKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s", tenantID)
}

var CacheKey = NewCacheKeyStruct()
