// Package seed provisions demo tenants and users. Seeding is an explicit,
// idempotent routine invoked once at startup (behind a flag), never inline
// in the login path.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/password"
	"github.com/wolfeidau/notable/internal/store"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Data describes the tenants and users to provision.
type Data struct {
	Tenants []TenantSeed `yaml:"tenants"`
}

// TenantSeed describes one tenant and its users.
type TenantSeed struct {
	Name  string     `yaml:"name"`
	Slug  string     `yaml:"slug"`
	Plan  string     `yaml:"plan"`
	Users []UserSeed `yaml:"users"`
}

// UserSeed describes one user within a seeded tenant.
type UserSeed struct {
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

// Parse decodes seed data from YAML.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// Default returns the embedded demo seed data (acme and globex tenants).
func Default() *Data {
	data, err := Parse(defaultSeedYAML)
	if err != nil {
		// The embedded file is validated by tests; a parse failure here
		// is a build defect.
		panic(err)
	}
	return data
}

// Apply provisions the seed data. Tenants and users that already exist are
// left untouched, so applying the same data twice is a no-op.
func Apply(ctx context.Context, data *Data, tenants store.TenantStore, users store.UserStore) error {
	for _, ts := range data.Tenants {
		plan, err := models.ParsePlan(ts.Plan)
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", ts.Slug, err)
		}

		tenant, err := tenants.GetBySlug(ctx, ts.Slug)
		if errors.Is(err, store.ErrTenantNotFound) {
			tenant = &models.Tenant{
				TenantID:  uuid.Must(uuid.NewV7()),
				Name:      ts.Name,
				Slug:      ts.Slug,
				Plan:      plan,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := tenants.Create(ctx, tenant); err != nil {
				return fmt.Errorf("seed tenant %s: %w", ts.Slug, err)
			}
			log.Info().Str("slug", ts.Slug).Msg("Seeded tenant")
		} else if err != nil {
			return fmt.Errorf("seed tenant %s: %w", ts.Slug, err)
		}

		for _, us := range ts.Users {
			if err := seedUser(ctx, users, tenant, us); err != nil {
				return err
			}
		}
	}

	return nil
}

func seedUser(ctx context.Context, users store.UserStore, tenant *models.Tenant, us UserSeed) error {
	role, err := models.ParseRole(us.Role)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", us.Email, err)
	}

	_, err = users.GetByEmail(ctx, us.Email)
	if err == nil {
		return nil // already provisioned
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("seed user %s: %w", us.Email, err)
	}

	digest, err := password.Hash(us.Password)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", us.Email, err)
	}

	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Email:        us.Email,
		PasswordHash: digest,
		Role:         role,
		TenantID:     tenant.TenantID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("seed user %s: %w", us.Email, err)
	}

	log.Info().Str("email", us.Email).Str("tenant", tenant.Slug).Msg("Seeded user")
	return nil
}
