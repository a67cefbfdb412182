package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/coursecraft/lms/internal/middlewares"
	"github.com/coursecraft/lms/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.Identity, error)
}

// AuthMiddleware validates JWT access token and stores the caller identity in the request context
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return RoleMiddleware(validator)
}

// RoleMiddleware validates JWT access token and checks that the caller has one of the allowed roles.
// With no roles given every authenticated caller is accepted.
func RoleMiddleware(validator TokenValidator, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				middlewares.WriteJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			identity, err := validator.ValidateAccessToken(token)
			if err != nil {
				middlewares.WriteJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if len(allowed) > 0 && !slices.Contains(allowed, identity.Role) {
				middlewares.WriteJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads the bearer token from the Authorization header, falling back to the access_token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

// GetIdentity retrieves the caller identity from context
func GetIdentity(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

// GetUserID retrieves the caller user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	identity, ok := GetIdentity(ctx)
	if !ok {
		return "", false
	}
	return identity.UserID, true
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
