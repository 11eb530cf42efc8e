package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T) (*Middleware, *memUserRepo, *PasetoService) {
	t.Helper()

	tokenService, err := NewPasetoService(testKey())
	require.NoError(t, err)

	repo := newMemUserRepo()
	return NewMiddleware(tokenService, repo), repo, tokenService
}

func gateRequest(t *testing.T, m *Middleware, authHeader string) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()

	var captured *Identity
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			captured = &identity
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec, captured
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	gate, repo, tokenService := newTestGate(t)

	u, err := repo.Create(context.Background(), "a@x.com", "digest")
	require.NoError(t, err)

	token, err := tokenService.CreateToken(u.ID, u.Email, time.Hour)
	require.NoError(t, err)

	rec, identity := gateRequest(t, gate, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, identity)
	require.Equal(t, u.ID, identity.ID)
	require.Equal(t, "a@x.com", identity.Email)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	gate, _, _ := newTestGate(t)

	rec, identity := gateRequest(t, gate, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, identity)
}

func TestRequireAuth_BadHeaderFormat(t *testing.T) {
	t.Parallel()

	gate, _, _ := newTestGate(t)

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer a b"} {
		rec, identity := gateRequest(t, gate, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		require.Nil(t, identity)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	gate, _, _ := newTestGate(t)

	rec, identity := gateRequest(t, gate, "Bearer not-a-real-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, identity)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	gate, repo, tokenService := newTestGate(t)

	u, err := repo.Create(context.Background(), "a@x.com", "digest")
	require.NoError(t, err)

	// Issued in the past, so it is expired on arrival
	token, err := tokenService.CreateToken(u.ID, u.Email, -time.Hour)
	require.NoError(t, err)

	rec, identity := gateRequest(t, gate, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
	require.Nil(t, identity)
}

func TestRequireAuth_SubjectGone(t *testing.T) {
	t.Parallel()

	gate, repo, tokenService := newTestGate(t)

	u, err := repo.Create(context.Background(), "a@x.com", "digest")
	require.NoError(t, err)

	token, err := tokenService.CreateToken(u.ID, u.Email, time.Hour)
	require.NoError(t, err)

	// Token is cryptographically valid but the user row no longer exists
	repo.delete(u.ID)

	rec, identity := gateRequest(t, gate, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, identity)
}
