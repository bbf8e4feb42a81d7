package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/skillswap/skillswap-api/internal/httputil"
	"github.com/skillswap/skillswap-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// UserContextKey holds the resolved *user.User for the current request.
const UserContextKey ContextKey = "user"

// Middleware is the request gate for protected routes: it validates the
// session token and injects the resolved user into the request context.
type Middleware struct {
	tokenService TokenService
	users        UserDirectory
}

func NewMiddleware(tokenService TokenService, users UserDirectory) *Middleware {
	return &Middleware{tokenService: tokenService, users: users}
}

// RequireAuth validates the bearer session token. CORS preflight requests
// pass through unauthenticated with an empty 200. A token whose email no
// longer resolves to a user is rejected even when its signature is valid.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}
		if token == "" {
			httputil.RespondErrorWithCode(w, "missing token", httputil.CodeMissingToken, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		resolved, err := m.users.GetByEmail(r.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUnknownUser, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "failed to resolve user", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, resolved)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from the Authorization header.
// Returns ok=false for a header present but not in "Bearer <token>" form.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", true
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// GetUserFromContext extracts the resolved user from the request context
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok
}
