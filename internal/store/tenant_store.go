package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
)

// Sentinel errors for tenant store operations
var (
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantAlreadyExists = errors.New("tenant already exists")
)

// TenantStore defines the interface for tenant storage operations.
// Tenants are never deleted; the plan is mutated only via SetPlan.
type TenantStore interface {
	// Create creates a new tenant.
	// Returns ErrTenantAlreadyExists if the ID or slug is already taken.
	Create(ctx context.Context, tenant *models.Tenant) error

	// Get retrieves a tenant by ID.
	// Returns ErrTenantNotFound if the tenant doesn't exist.
	Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)

	// GetBySlug retrieves a tenant by its unique slug.
	// Returns ErrTenantNotFound if the tenant doesn't exist.
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)

	// SetPlan updates the tenant's subscription plan. Setting the plan a
	// tenant already has succeeds without change (idempotent).
	// Returns ErrTenantNotFound if the tenant doesn't exist.
	SetPlan(ctx context.Context, tenantID uuid.UUID, plan models.Plan) (*models.Tenant, error)
}
