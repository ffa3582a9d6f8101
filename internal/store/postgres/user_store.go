package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL-backed user store.
// It shares the connection pool with the other stores.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool: pool,
	}
}

// Create creates a new user in the database. The users_email_key constraint
// enforces the global email namespace.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			user_id, email, password_hash, role, tenant_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.TenantID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrTenantNotFound
		}
		return wrapPostgresError("failed to create user", err)
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Str("tenant_id", user.TenantID.String()).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID within a tenant. The query conjuncts the user
// ID with the tenant ID; a user in another tenant scans as no rows.
func (s *UserStore) Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, role, tenant_id, created_at, updated_at
		FROM users
		WHERE user_id = $1 AND tenant_id = $2
	`

	return s.scanUser(s.pool.QueryRow(ctx, query, userID, tenantID))
}

// GetByEmail retrieves a user by email across all tenants. Only the login
// flow uses this.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, role, tenant_id, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return s.scanUser(s.pool.QueryRow(ctx, query, email))
}

// ListByTenant returns all users belonging to a tenant, newest first.
func (s *UserStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, role, tenant_id, created_at, updated_at
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, wrapPostgresError("failed to list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.UserID,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.TenantID,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, wrapPostgresError("failed to scan user", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapPostgresError("error iterating users", err)
	}

	return users, nil
}

// Stats returns user counts by role for a tenant.
func (s *UserStore) Stats(ctx context.Context, tenantID uuid.UUID) (*store.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'Admin'),
			COUNT(*) FILTER (WHERE role = 'Member')
		FROM users
		WHERE tenant_id = $1
	`

	var stats store.UserStats
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(&stats.Total, &stats.Admins, &stats.Members)
	if err != nil {
		return nil, wrapPostgresError("failed to count users", err)
	}

	return &stats, nil
}

func (s *UserStore) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.TenantID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, wrapPostgresError("failed to get user", err)
	}

	return &user, nil
}
