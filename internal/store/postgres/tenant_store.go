package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/store"
)

// TenantStore implements store.TenantStore using PostgreSQL.
type TenantStore struct {
	pool *pgxpool.Pool
}

// NewTenantStore creates a new PostgreSQL-backed tenant store.
// It shares the connection pool with the other stores.
func NewTenantStore(pool *pgxpool.Pool) *TenantStore {
	return &TenantStore{
		pool: pool,
	}
}

// Create creates a new tenant in the database.
func (s *TenantStore) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, name, slug, plan, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := s.pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.Slug,
		tenant.Plan,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrTenantAlreadyExists
		}
		return wrapPostgresError("failed to create tenant", err)
	}

	log.Debug().
		Str("tenant_id", tenant.TenantID.String()).
		Str("slug", tenant.Slug).
		Msg("Created tenant")

	return nil
}

// Get retrieves a tenant by ID.
func (s *TenantStore) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT tenant_id, name, slug, plan, created_at, updated_at
		FROM tenants
		WHERE tenant_id = $1
	`

	return s.scanTenant(s.pool.QueryRow(ctx, query, tenantID))
}

// GetBySlug retrieves a tenant by its unique slug.
func (s *TenantStore) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT tenant_id, name, slug, plan, created_at, updated_at
		FROM tenants
		WHERE slug = $1
	`

	return s.scanTenant(s.pool.QueryRow(ctx, query, slug))
}

// SetPlan updates the tenant's plan. Setting an unchanged plan succeeds
// without modifying the row's updated_at.
func (s *TenantStore) SetPlan(ctx context.Context, tenantID uuid.UUID, plan models.Plan) (*models.Tenant, error) {
	query := `
		UPDATE tenants SET
			plan = $2,
			updated_at = CASE WHEN plan = $2 THEN updated_at ELSE $3 END
		WHERE tenant_id = $1
		RETURNING tenant_id, name, slug, plan, created_at, updated_at
	`

	tenant, err := s.scanTenant(s.pool.QueryRow(ctx, query, tenantID, plan, time.Now()))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("plan", string(plan)).
		Msg("Updated tenant plan")

	return tenant, nil
}

func (s *TenantStore) scanTenant(row pgx.Row) (*models.Tenant, error) {
	var tenant models.Tenant
	err := row.Scan(
		&tenant.TenantID,
		&tenant.Name,
		&tenant.Slug,
		&tenant.Plan,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrTenantNotFound
		}
		return nil, wrapPostgresError("failed to get tenant", err)
	}

	return &tenant, nil
}
