// Package server wires the authentication middlewares and the tenant-scoped
// handlers into the service's HTTP surface.
package server

import (
	"net/http"

	"github.com/wolfeidau/notable/internal/auth"
	"github.com/wolfeidau/notable/internal/directory"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/store"
)

// Server holds the handlers for the notes service API.
type Server struct {
	tokens  *auth.Tokens
	dir     *directory.Directory
	tenants store.TenantStore
	users   store.UserStore
	notes   store.NoteStore
}

// New creates a server over the given stores and token service.
func New(tokens *auth.Tokens, dir *directory.Directory, tenants store.TenantStore, users store.UserStore, notes store.NoteStore) *Server {
	return &Server{
		tokens:  tokens,
		dir:     dir,
		tenants: tenants,
		users:   users,
		notes:   notes,
	}
}

// Routes builds the request mux. Every protected route composes the identity
// middleware first, then the tenant guard, then (where required) the role
// gate; handlers behind the chain read identity only from the context.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	authenticated := s.tokens.Middleware()
	tenantScoped := auth.RequireTenant()
	adminOnly := auth.RequireRole(models.RoleAdmin)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("POST /notes", chain(s.handleCreateNote, authenticated, tenantScoped))
	mux.Handle("GET /notes", chain(s.handleListNotes, authenticated, tenantScoped))
	mux.Handle("GET /notes/{id}", chain(s.handleGetNote, authenticated, tenantScoped))
	mux.Handle("PUT /notes/{id}", chain(s.handleUpdateNote, authenticated, tenantScoped))
	mux.Handle("DELETE /notes/{id}", chain(s.handleDeleteNote, authenticated, tenantScoped))

	mux.Handle("GET /users", chain(s.handleListUsers, authenticated, tenantScoped, adminOnly))
	mux.Handle("GET /users/stats", chain(s.handleUserStats, authenticated, tenantScoped, adminOnly))
	mux.Handle("POST /users/invite", chain(s.handleInviteUser, authenticated, tenantScoped, adminOnly))

	mux.Handle("GET /tenants/info", chain(s.handleTenantInfo, authenticated, tenantScoped))
	mux.Handle("POST /tenants/upgrade", chain(s.handleUpgradeTenant, authenticated, tenantScoped, adminOnly))

	return mux
}

// chain wraps a handler in middlewares, outermost first.
func chain(h http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = h
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
