package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/billfold/billfold/internal/httpx"
)

// Middleware wires bearer-token authentication and role gates for handlers.
type Middleware struct {
	Tokens *TokenStore
	Logger *slog.Logger
}

// Authenticate verifies the Authorization header and injects the identity
// into the request context. Absent or invalid credentials fail with 401.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.RespondError(w, fmt.Errorf("missing bearer token: %w", httpx.ErrUnauthorized))
			return
		}
		id, err := m.Tokens.Verify(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}

// RequireRoles ensures the authenticated identity holds one of the listed
// roles. An empty list admits any authenticated user.
func (m Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role != "" {
			allowed[role] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, fmt.Errorf("missing identity: %w", httpx.ErrUnauthorized))
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[strings.ToLower(id.Role)]; !ok {
				if m.Logger != nil {
					m.Logger.Warn("role denied", slog.String("role", id.Role), slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, fmt.Errorf("role %q not permitted: %w", id.Role, httpx.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
