package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/store"
)

func newUser(email string, role models.Role, tenantID uuid.UUID) *models.User {
	return &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Email:        email,
		PasswordHash: "$2a$10$fakedigest",
		Role:         role,
		TenantID:     tenantID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestUserStore_Create(t *testing.T) {
	st := NewUserStore()
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	require.NoError(t, st.Create(ctx, newUser("admin@acme.test", models.RoleAdmin, tenantID)))

	t.Run("duplicate email in same tenant rejected", func(t *testing.T) {
		err := st.Create(ctx, newUser("admin@acme.test", models.RoleMember, tenantID))
		require.ErrorIs(t, err, store.ErrUserAlreadyExists)
	})

	t.Run("duplicate email across tenants rejected", func(t *testing.T) {
		otherTenant := uuid.Must(uuid.NewV7())
		err := st.Create(ctx, newUser("admin@acme.test", models.RoleAdmin, otherTenant))
		require.ErrorIs(t, err, store.ErrUserAlreadyExists)
	})
}

func TestUserStore_Get(t *testing.T) {
	st := NewUserStore()
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	user := newUser("user@acme.test", models.RoleMember, tenantID)
	require.NoError(t, st.Create(ctx, user))

	got, err := st.Get(ctx, tenantID, user.UserID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)

	t.Run("cross-tenant lookup is not found", func(t *testing.T) {
		_, err := st.Get(ctx, uuid.Must(uuid.NewV7()), user.UserID)
		require.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStore_GetByEmail(t *testing.T) {
	st := NewUserStore()
	ctx := context.Background()

	user := newUser("user@acme.test", models.RoleMember, uuid.Must(uuid.NewV7()))
	require.NoError(t, st.Create(ctx, user))

	got, err := st.GetByEmail(ctx, "user@acme.test")
	require.NoError(t, err)
	require.Equal(t, user.UserID, got.UserID)

	_, err = st.GetByEmail(ctx, "nobody@acme.test")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_ListByTenantAndStats(t *testing.T) {
	st := NewUserStore()
	ctx := context.Background()

	acme := uuid.Must(uuid.NewV7())
	globex := uuid.Must(uuid.NewV7())

	require.NoError(t, st.Create(ctx, newUser("admin@acme.test", models.RoleAdmin, acme)))
	require.NoError(t, st.Create(ctx, newUser("user@acme.test", models.RoleMember, acme)))
	require.NoError(t, st.Create(ctx, newUser("user2@acme.test", models.RoleMember, acme)))
	require.NoError(t, st.Create(ctx, newUser("admin@globex.test", models.RoleAdmin, globex)))

	users, err := st.ListByTenant(ctx, acme)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		require.Equal(t, acme, u.TenantID)
	}

	stats, err := st.Stats(ctx, acme)
	require.NoError(t, err)
	require.Equal(t, &store.UserStats{Total: 3, Admins: 1, Members: 2}, stats)
}
