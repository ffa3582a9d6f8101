package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"github.com/wolfeidau/notable/internal/auth"
	"github.com/wolfeidau/notable/internal/directory"
	"github.com/wolfeidau/notable/internal/httpserver"
	"github.com/wolfeidau/notable/internal/logger"
	"github.com/wolfeidau/notable/internal/seed"
	"github.com/wolfeidau/notable/internal/server"
	"github.com/wolfeidau/notable/internal/store"
	memorystore "github.com/wolfeidau/notable/internal/store/memory"
	postgresstore "github.com/wolfeidau/notable/internal/store/postgres"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"NOTABLE_LISTEN"`

	// Token configuration
	JWTSecret string        `help:"secret key for HMAC signing of access tokens" env:"NOTABLE_JWT_SECRET"`
	TokenTTL  time.Duration `help:"access token TTL" default:"168h" env:"NOTABLE_TOKEN_TTL"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"NOTABLE_CORS_ORIGINS"`

	// Development and operational modes
	Seed bool `help:"apply the built-in demo tenants and users on startup" default:"false" env:"NOTABLE_SEED"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"NOTABLE_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"NOTABLE_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresStoreFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if len(c.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("JWT secret must be at least %d bytes (--jwt-secret or NOTABLE_JWT_SECRET)", auth.MinSecretLength)
	}

	tokens, err := auth.NewTokens([]byte(c.JWTSecret))
	if err != nil {
		return fmt.Errorf("failed to configure token signing: %w", err)
	}

	// Create stores based on store type
	var (
		tenantStore store.TenantStore
		userStore   store.UserStore
		noteStore   store.NoteStore
	)

	switch c.StoreType {
	case "postgres":
		// Create shared connection pool for all PostgreSQL stores
		poolCfg := &postgresstore.PoolConfig{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
		}
		pool, err := postgresstore.NewPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}

		// Run migrations if enabled
		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		tenantStore = postgresstore.NewTenantStore(pool)
		userStore = postgresstore.NewUserStore(pool)
		noteStore = postgresstore.NewNoteStore(pool)

		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		memTenants := memorystore.NewTenantStore()
		tenantStore = memTenants
		userStore = memorystore.NewUserStore()
		noteStore = memorystore.NewNoteStore(memTenants)
		log.Info().Msg("Using in-memory stores")
	}

	if c.Seed {
		if err := seed.Apply(ctx, seed.Default(), tenantStore, userStore); err != nil {
			return fmt.Errorf("failed to apply seed data: %w", err)
		}
		log.Info().Msg("Seed data applied")
	}

	dir := directory.New(userStore, tenantStore, tokens, c.TokenTTL)
	srv := server.New(tokens, dir, tenantStore, userStore, noteStore)

	handler := httpserver.RequestLogging(log)(
		httpserver.ClientIPMiddleware()(
			gzhttp.GzipHandler(
				withCORS(c.CORSOrigins, srv.Routes()))))

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return configureHTTPServer(c.Listen, handler).ListenAndServe()
}

// withCORS adds CORS support to the API handler.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return middleware.Handler(h)
}
