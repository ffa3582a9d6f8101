package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStats holds per-tenant user counts by role.
type UserStats struct {
	Total   int `json:"totalUsers"`
	Admins  int `json:"adminUsers"`
	Members int `json:"memberUsers"`
}

// UserStore defines the interface for user storage operations.
//
// Except for GetByEmail, which serves login against the global email
// namespace, every method takes the tenant ID as a mandatory parameter so
// callers cannot express an unscoped query.
type UserStore interface {
	// Create creates a new user.
	// Returns ErrUserAlreadyExists if the email is already taken by any
	// tenant's user (email uniqueness is global).
	Create(ctx context.Context, user *models.User) error

	// Get retrieves a user by ID within a tenant.
	// Returns ErrUserNotFound if the user doesn't exist in that tenant.
	Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email across all tenants. Only the
	// login flow may use this; everything downstream of authentication is
	// tenant-scoped.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ListByTenant returns all users belonging to a tenant, newest first.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error)

	// Stats returns user counts by role for a tenant.
	Stats(ctx context.Context, tenantID uuid.UUID) (*UserStats, error)
}
