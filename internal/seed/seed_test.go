package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/password"
	"github.com/wolfeidau/notable/internal/store/memory"
)

func TestDefaultSeedData(t *testing.T) {
	data := Default()
	require.Len(t, data.Tenants, 2)
	require.Equal(t, "acme", data.Tenants[0].Slug)
	require.Equal(t, "globex", data.Tenants[1].Slug)
	for _, tenant := range data.Tenants {
		require.Len(t, tenant.Users, 2)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	tenants := memory.NewTenantStore()
	users := memory.NewUserStore()

	require.NoError(t, Apply(ctx, Default(), tenants, users))

	acme, err := tenants.GetBySlug(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, models.PlanFree, acme.Plan)

	admin, err := users.GetByEmail(ctx, "admin@acme.test")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.Equal(t, acme.TenantID, admin.TenantID)
	require.True(t, password.Matches("password", admin.PasswordHash))
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tenants := memory.NewTenantStore()
	users := memory.NewUserStore()

	require.NoError(t, Apply(ctx, Default(), tenants, users))

	first, err := users.GetByEmail(ctx, "admin@acme.test")
	require.NoError(t, err)

	// Applying the same data again must not create duplicates or replace
	// existing records.
	require.NoError(t, Apply(ctx, Default(), tenants, users))

	second, err := users.GetByEmail(ctx, "admin@acme.test")
	require.NoError(t, err)
	require.Equal(t, first.UserID, second.UserID)
	require.Equal(t, first.PasswordHash, second.PasswordHash)
}

func TestParseRejectsBadValues(t *testing.T) {
	ctx := context.Background()

	t.Run("bad plan", func(t *testing.T) {
		data, err := Parse([]byte("tenants:\n  - name: X\n    slug: x\n    plan: platinum\n"))
		require.NoError(t, err)
		err = Apply(ctx, data, memory.NewTenantStore(), memory.NewUserStore())
		require.Error(t, err)
	})

	t.Run("bad role", func(t *testing.T) {
		data, err := Parse([]byte("tenants:\n  - name: X\n    slug: x\n    plan: free\n    users:\n      - email: a@x.test\n        role: Root\n        password: p\n"))
		require.NoError(t, err)
		err = Apply(ctx, data, memory.NewTenantStore(), memory.NewUserStore())
		require.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("tenants: ["))
		require.Error(t, err)
	})
}
