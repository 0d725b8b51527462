package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-admin-session/token/jwt"
	"github.com/jrsteele09/go-admin-session/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated user
	ContextKeyUser ContextKey = "user"
	// ContextKeyClaims stores parsed token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireAuth validates the Bearer access token and loads its user. A token of a
// deleted user is rejected like an invalid one.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
			return
		}

		claims, err := s.tokens.Inspect(raw)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("access token rejected")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := s.repos.Users.GetByID(claims.Subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
		ctx = context.WithValue(ctx, ContextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must be chained after RequireAuth.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userFromContext(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func userFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(ContextKeyUser).(*users.User)
	return user
}

func claimsFromContext(ctx context.Context) *jwt.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*jwt.Claims)
	return claims
}
