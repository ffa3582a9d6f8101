package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/notable/internal/auth"
	"github.com/wolfeidau/notable/internal/directory"
	"github.com/wolfeidau/notable/internal/models"
	"github.com/wolfeidau/notable/internal/seed"
	"github.com/wolfeidau/notable/internal/store/memory"
)

type testHarness struct {
	handler http.Handler
	tokens  *auth.Tokens
	tenants *memory.TenantStore
	users   *memory.UserStore
	notes   *memory.NoteStore
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	tokens, err := auth.NewTokens([]byte("test-signing-secret-at-least-32-bytes"))
	require.NoError(t, err)

	tenants := memory.NewTenantStore()
	users := memory.NewUserStore()
	notes := memory.NewNoteStore(tenants)

	require.NoError(t, seed.Apply(context.Background(), seed.Default(), tenants, users))

	dir := directory.New(users, tenants, tokens, time.Hour)
	srv := New(tokens, dir, tenants, users, notes)

	return &testHarness{
		handler: srv.Routes(),
		tokens:  tokens,
		tenants: tenants,
		users:   users,
		notes:   notes,
	}
}

func (h *testHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *testHarness) login(t *testing.T, email string) string {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id
}

func decodeNote(t *testing.T, rec *httptest.ResponseRecorder) models.Note {
	t.Helper()
	var note models.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	return note
}

func TestHealth(t *testing.T) {
	h := newTestHarness(t)
	rec := h.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestHarness(t)

	t.Run("success returns token, principal and tenant projection", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "admin@acme.test",
			"password": "password",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, models.RoleAdmin, resp.User.Role)
		require.Equal(t, "acme", resp.Tenant.Slug)
		require.NotContains(t, rec.Body.String(), "passwordHash")
		require.NotContains(t, rec.Body.String(), "password_hash")
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrong := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "admin@acme.test",
			"password": "nope",
		})
		unknown := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "ghost@acme.test",
			"password": "password",
		})

		require.Equal(t, http.StatusUnauthorized, wrong.Code)
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.JSONEq(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@acme.test"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthenticationRequired(t *testing.T) {
	h := newTestHarness(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/notes"},
		{http.MethodPost, "/notes"},
		{http.MethodGet, "/users"},
		{http.MethodGet, "/tenants/info"},
		{http.MethodPost, "/tenants/upgrade"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := h.do(t, p.method, p.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	t.Run("expired token rejected", func(t *testing.T) {
		expired, err := h.tokens.Issue(&models.Principal{
			UserID:   mustUUID(t),
			TenantID: mustUUID(t),
			Role:     models.RoleAdmin,
		}, -time.Minute)
		require.NoError(t, err)

		rec := h.do(t, http.MethodGet, "/notes", expired, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token rejected", func(t *testing.T) {
		token := h.login(t, "admin@acme.test")
		tampered := token[:len(token)-2] + "xx"

		rec := h.do(t, http.MethodGet, "/notes", tampered, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestNoteCRUD(t *testing.T) {
	h := newTestHarness(t)
	token := h.login(t, "user@acme.test")

	created := h.do(t, http.MethodPost, "/notes", token, noteRequest{Title: "first", Content: "hello"})
	require.Equal(t, http.StatusCreated, created.Code)
	note := decodeNote(t, created)

	t.Run("get", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/notes/"+note.NoteID.String(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "first", decodeNote(t, rec).Title)
	})

	t.Run("list", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/notes", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var notes []models.Note
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
		require.Len(t, notes, 1)
	})

	t.Run("any tenant member may update another member's note", func(t *testing.T) {
		adminToken := h.login(t, "admin@acme.test")
		rec := h.do(t, http.MethodPut, "/notes/"+note.NoteID.String(), adminToken, noteRequest{Title: "edited", Content: "bye"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "edited", decodeNote(t, rec).Title)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/notes", token, noteRequest{Content: "no title"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/notes/not-a-uuid", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := h.do(t, http.MethodDelete, "/notes/"+note.NoteID.String(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = h.do(t, http.MethodGet, "/notes/"+note.NoteID.String(), token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCrossTenantIsolation(t *testing.T) {
	h := newTestHarness(t)
	acmeToken := h.login(t, "user@acme.test")
	globexAdmin := h.login(t, "admin@globex.test")

	created := h.do(t, http.MethodPost, "/notes", acmeToken, noteRequest{Title: "secret", Content: "acme only"})
	require.Equal(t, http.StatusCreated, created.Code)
	note := decodeNote(t, created)

	// A note in another tenant must look exactly like a missing note.
	for _, tc := range []struct {
		name   string
		method string
		body   any
	}{
		{"get", http.MethodGet, nil},
		{"update", http.MethodPut, noteRequest{Title: "stolen", Content: "x"}},
		{"delete", http.MethodDelete, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(t, tc.method, "/notes/"+note.NoteID.String(), globexAdmin, tc.body)
			require.Equal(t, http.StatusNotFound, rec.Code)
		})
	}

	t.Run("list excludes other tenants", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/notes", globexAdmin, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var notes []models.Note
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
		require.Empty(t, notes)
	})
}

func TestNoteQuota(t *testing.T) {
	h := newTestHarness(t)
	token := h.login(t, "user@acme.test")

	for i := 0; i < 3; i++ {
		rec := h.do(t, http.MethodPost, "/notes", token, noteRequest{Title: fmt.Sprintf("note %d", i), Content: "x"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("fourth note rejected on free plan", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/notes", token, noteRequest{Title: "one too many", Content: "x"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("other tenants unaffected", func(t *testing.T) {
		globexToken := h.login(t, "user@globex.test")
		rec := h.do(t, http.MethodPost, "/notes", globexToken, noteRequest{Title: "fine", Content: "x"})
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("upgrade lifts the limit", func(t *testing.T) {
		adminToken := h.login(t, "admin@acme.test")
		rec := h.do(t, http.MethodPost, "/tenants/upgrade", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = h.do(t, http.MethodPost, "/notes", token, noteRequest{Title: "fourth", Content: "x"})
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestUpgradeTenant(t *testing.T) {
	h := newTestHarness(t)

	t.Run("member cannot upgrade", func(t *testing.T) {
		token := h.login(t, "user@acme.test")
		rec := h.do(t, http.MethodPost, "/tenants/upgrade", token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin upgrade is idempotent", func(t *testing.T) {
		token := h.login(t, "admin@acme.test")

		first := h.do(t, http.MethodPost, "/tenants/upgrade", token, nil)
		require.Equal(t, http.StatusOK, first.Code)

		second := h.do(t, http.MethodPost, "/tenants/upgrade", token, nil)
		require.Equal(t, http.StatusOK, second.Code)

		var resp upgradeResponse
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
		require.Equal(t, models.PlanPro, resp.Plan)
	})
}

func TestTenantInfo(t *testing.T) {
	h := newTestHarness(t)
	token := h.login(t, "user@acme.test")

	rec := h.do(t, http.MethodGet, "/tenants/info", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tenant models.PublicTenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tenant))
	require.Equal(t, models.PublicTenant{Name: "Acme", Slug: "acme", Plan: models.PlanFree}, tenant)
}

func TestUserEndpoints(t *testing.T) {
	h := newTestHarness(t)
	adminToken := h.login(t, "admin@acme.test")
	memberToken := h.login(t, "user@acme.test")

	t.Run("member cannot list users", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/users", memberToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin lists own tenant's users without password hashes", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/users", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var users []models.PublicUser
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 2)
		for _, u := range users {
			require.True(t, strings.HasSuffix(u.Email, "@acme.test"))
		}
		require.NotContains(t, rec.Body.String(), "passwordHash")
		require.NotContains(t, rec.Body.String(), "$2a$")
	})

	t.Run("stats", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/users/stats", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"totalUsers":2,"adminUsers":1,"memberUsers":1}`, rec.Body.String())
	})
}

func TestInviteUser(t *testing.T) {
	h := newTestHarness(t)
	acmeAdmin := h.login(t, "admin@acme.test")
	acmeMember := h.login(t, "user@acme.test")
	globexAdmin := h.login(t, "admin@globex.test")

	t.Run("member cannot invite", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/users/invite", acmeMember, inviteRequest{Email: "new@acme.test"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin invites with temporary password", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/users/invite", acmeAdmin, inviteRequest{Email: "new@acme.test"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp inviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, models.RoleMember, resp.User.Role)
		require.NotEmpty(t, resp.TemporaryPassword)

		// The invited user can log in with the temporary password.
		login := h.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "new@acme.test",
			"password": resp.TemporaryPassword,
		})
		require.Equal(t, http.StatusOK, login.Code)
	})

	t.Run("duplicate email conflicts even from another tenant", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/users/invite", globexAdmin, inviteRequest{Email: "new@acme.test"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("explicit admin role honoured", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/users/invite", acmeAdmin, inviteRequest{Email: "boss@acme.test", Role: "Admin"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp inviteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, models.RoleAdmin, resp.User.Role)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/users/invite", acmeAdmin, inviteRequest{Email: "x@acme.test", Role: "Root"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
