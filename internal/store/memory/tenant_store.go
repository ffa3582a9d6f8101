package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/store"
)

// TenantStore implements store.TenantStore using in-memory storage.
// This implementation is for testing and development - data is lost on restart.
type TenantStore struct {
	mu sync.RWMutex

	tenants       map[uuid.UUID]*models.Tenant // tenant_id -> Tenant
	tenantsBySlug map[string]*models.Tenant    // slug -> Tenant
}

// NewTenantStore creates a new in-memory tenant store.
func NewTenantStore() *TenantStore {
	return &TenantStore{
		tenants:       make(map[uuid.UUID]*models.Tenant),
		tenantsBySlug: make(map[string]*models.Tenant),
	}
}

// Create creates a new tenant in memory.
func (s *TenantStore) Create(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[tenant.TenantID]; exists {
		return store.ErrTenantAlreadyExists
	}
	if _, exists := s.tenantsBySlug[tenant.Slug]; exists {
		return store.ErrTenantAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *tenant
	s.tenants[tenant.TenantID] = &clone
	s.tenantsBySlug[tenant.Slug] = &clone

	return nil
}

// Get retrieves a tenant by ID.
func (s *TenantStore) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, exists := s.tenants[tenantID]
	if !exists {
		return nil, store.ErrTenantNotFound
	}

	clone := *tenant
	return &clone, nil
}

// GetBySlug retrieves a tenant by its unique slug.
func (s *TenantStore) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenant, exists := s.tenantsBySlug[slug]
	if !exists {
		return nil, store.ErrTenantNotFound
	}

	clone := *tenant
	return &clone, nil
}

// SetPlan updates the tenant's plan. Setting an unchanged plan is a no-op
// success.
func (s *TenantStore) SetPlan(ctx context.Context, tenantID uuid.UUID, plan models.Plan) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, exists := s.tenants[tenantID]
	if !exists {
		return nil, store.ErrTenantNotFound
	}

	if tenant.Plan != plan {
		tenant.Plan = plan
		tenant.UpdatedAt = time.Now()
	}

	clone := *tenant
	return &clone, nil
}
