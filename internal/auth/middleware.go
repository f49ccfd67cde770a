package auth

import (
	"net/http"
	"strings"

	"github.com/gestor-pm/gestor/internal/platform/httpx"
)

// Middleware guards routes behind bearer-token authentication.
type Middleware struct {
	secret []byte
}

// NewMiddleware constructs a Middleware.
func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// RequireUser rejects requests without a valid bearer token and attaches the
// caller identity to the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		claims, err := ParseToken(strings.TrimPrefix(header, "Bearer "), m.secret)
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		ctx := ContextWithIdentity(r.Context(), Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Admin:  claims.Admin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally rejects non-admin callers. It must be mounted
// after RequireUser.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok || !id.Admin {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
