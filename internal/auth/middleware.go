package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest/internal/httputil"
	"github.com/tasknest/tasknest/internal/logging"
	"github.com/tasknest/tasknest/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	IdentityContextKey ContextKey = "identity"
)

// Identity is the authenticated caller injected into the request context.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	userRepo     UserRepository
}

func NewMiddleware(tokenService TokenService, userRepo UserRepository) *Middleware {
	return &Middleware{
		tokenService: tokenService,
		userRepo:     userRepo,
	}
}

// RequireAuth validates the bearer token, resolves the subject to a live
// user, and injects the identity into the request context. Every failure
// mode is a 401; downstream handlers only ever see a verified identity.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}
		token := parts[1]

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		subjectID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		// A valid token whose subject row is gone must stop working
		subject, err := m.userRepo.GetByID(r.Context(), subjectID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
				return
			}
			logger := logging.GetLoggerFromContext(r.Context())
			logger.Error("failed to resolve token subject", "error", err.Error())
			httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		identity := Identity{ID: subject.ID, Email: subject.Email}
		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext extracts the authenticated identity from the request context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(Identity)
	return identity, ok
}
