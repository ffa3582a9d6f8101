package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/store"
)

// UserStore implements store.UserStore using in-memory storage.
// This implementation is for testing and development - data is lost on restart.
type UserStore struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*models.User // user_id -> User
	usersByEmail map[string]*models.User    // email -> User (global namespace)
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users:        make(map[uuid.UUID]*models.User),
		usersByEmail: make(map[string]*models.User),
	}
}

// Create creates a new user in memory. Email uniqueness is enforced across
// all tenants.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.UserID]; exists {
		return store.ErrUserAlreadyExists
	}
	if _, exists := s.usersByEmail[user.Email]; exists {
		return store.ErrUserAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *user
	s.users[user.UserID] = &clone
	s.usersByEmail[user.Email] = &clone

	return nil
}

// Get retrieves a user by ID within a tenant. A user in a different tenant
// is reported as not found.
func (s *UserStore) Get(ctx context.Context, tenantID, userID uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists || user.TenantID != tenantID {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByEmail retrieves a user by email across all tenants.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByEmail[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// ListByTenant returns all users belonging to a tenant, newest first.
func (s *UserStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.User
	for _, user := range s.users {
		if user.TenantID == tenantID {
			clone := *user
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Stats returns user counts by role for a tenant.
func (s *UserStore) Stats(ctx context.Context, tenantID uuid.UUID) (*store.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &store.UserStats{}
	for _, user := range s.users {
		if user.TenantID != tenantID {
			continue
		}
		stats.Total++
		switch user.Role {
		case models.RoleAdmin:
			stats.Admins++
		case models.RoleMember:
			stats.Members++
		}
	}

	return stats, nil
}
