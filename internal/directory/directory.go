// Package directory implements the login flow: credential validation,
// tenant resolution, and token issuance.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/auth"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/password"
	"github.com/wolfeidau/notable/internal/store"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a
	// wrong password alike; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTenantMissing is returned when a user's tenant record is absent.
	// This is a data-integrity fault, not a bad login.
	ErrTenantMissing = errors.New("tenant missing")
)

// Directory composes the user and tenant stores with the token service to
// authenticate users.
type Directory struct {
	users    store.UserStore
	tenants  store.TenantStore
	tokens   *auth.Tokens
	tokenTTL time.Duration
}

// New creates a directory service. ttl is the lifetime of issued tokens;
// zero means auth.DefaultTokenTTL.
func New(users store.UserStore, tenants store.TenantStore, tokens *auth.Tokens, ttl time.Duration) *Directory {
	if ttl == 0 {
		ttl = auth.DefaultTokenTTL
	}
	return &Directory{
		users:    users,
		tenants:  tenants,
		tokens:   tokens,
		tokenTTL: ttl,
	}
}

// LoginResult holds everything the login endpoint returns on success.
type LoginResult struct {
	Token     string
	Principal *models.Principal
	Tenant    models.PublicTenant
}

// Login validates the credentials against the global email namespace,
// resolves the user's tenant, and issues a token.
func (d *Directory) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	user, err := d.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug().Str("email", email).Msg("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !password.Matches(plaintext, user.PasswordHash) {
		log.Debug().Str("email", email).Msg("Login with wrong password")
		return nil, ErrInvalidCredentials
	}

	tenant, err := d.tenants.Get(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, store.ErrTenantNotFound) {
			// A user pointing at a missing tenant means the data is
			// corrupt upstream. Surface loudly, not as bad credentials.
			log.Error().
				Str("user_id", user.UserID.String()).
				Str("tenant_id", user.TenantID.String()).
				Msg("User references missing tenant")
			return nil, ErrTenantMissing
		}
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	principal := &models.Principal{
		UserID:   user.UserID,
		TenantID: user.TenantID,
		Role:     user.Role,
		Email:    user.Email,
	}

	token, err := d.tokens.Issue(principal, d.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info().
		Str("user_id", user.UserID.String()).
		Str("tenant", tenant.Slug).
		Msg("User logged in")

	return &LoginResult{
		Token:     token,
		Principal: principal,
		Tenant:    tenant.Public(),
	}, nil
}
