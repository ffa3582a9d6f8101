package server

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/wolfeidau/notable/internal/auth"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/password"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string              `json:"token"`
	User   *models.Principal   `json:"user"`
	Tenant models.PublicTenant `json:"tenant"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := s.dir.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:  result.Token,
		User:   result.Principal,
		Tenant: result.Tenant,
	})
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now()
	note := &models.Note{
		NoteID:    uuid.Must(uuid.NewV7()),
		Title:     req.Title,
		Content:   req.Content,
		TenantID:  principal.TenantID,
		UserID:    principal.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(r.Context(), note); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	notes, err := s.notes.ListByTenant(r.Context(), principal.TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if notes == nil {
		notes = []*models.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}

// noteID parses the {id} path segment. A malformed ID is a bad request, not
// an existence probe.
func noteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := noteID(w, r)
	if !ok {
		return
	}

	note, err := s.notes.Get(r.Context(), principal.TenantID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	note, err := s.notes.Update(r.Context(), principal.TenantID, id, req.Title, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := s.notes.Delete(r.Context(), principal.TenantID, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	users, err := s.users.ListByTenant(r.Context(), principal.TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Project to the public shape; password hashes never leave the store
	// layer through this endpoint.
	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}

	writeJSON(w, http.StatusOK, public)
}

func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	stats, err := s.users.Stats(r.Context(), principal.TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type inviteResponse struct {
	Message           string            `json:"message"`
	User              models.PublicUser `json:"user"`
	TemporaryPassword string            `json:"temporaryPassword"`
}

func (s *Server) handleInviteUser(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	role := models.RoleMember
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		role = parsed
	}

	tempPassword, err := generateTemporaryPassword()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	digest, err := password.Hash(tempPassword)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	now := time.Now()
	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Email:        req.Email,
		PasswordHash: digest,
		Role:         role,
		TenantID:     principal.TenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(r.Context(), user); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, inviteResponse{
		Message:           "user invited successfully",
		User:              user.Public(),
		TemporaryPassword: tempPassword,
	})
}

func (s *Server) handleTenantInfo(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	tenant, err := s.tenants.Get(r.Context(), principal.TenantID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tenant.Public())
}

type upgradeResponse struct {
	Message string              `json:"message"`
	Plan    models.Plan         `json:"plan"`
	Tenant  models.PublicTenant `json:"tenant"`
}

func (s *Server) handleUpgradeTenant(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	tenant, err := s.tenants.SetPlan(r.Context(), principal.TenantID, models.PlanPro)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, upgradeResponse{
		Message: "tenant upgraded to pro",
		Plan:    tenant.Plan,
		Tenant:  tenant.Public(),
	})
}

// generateTemporaryPassword returns a short random secret for invited users.
// It is returned once in the invite response and stored only as a hash.
func generateTemporaryPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	return base58.Encode(buf), nil
}
