package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/filedrophq/filedrop/internal/server/auth"
)

type ctxKey string

const principalKey ctxKey = "principal"

// withPrincipal extracts an optional bearer token and, when it verifies,
// records its principal in the request context. Requests without a token
// proceed anonymously; a token that fails verification is rejected so a
// caller never silently loses its attribution.
func (s *Server) withPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, "unsupported authorization scheme", http.StatusUnauthorized)
			return
		}

		principal, err := auth.GetPrincipalFromToken(token, s.jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalFrom returns the verified principal of the request, or "" for
// anonymous requests.
func principalFrom(ctx context.Context) string {
	if p, ok := ctx.Value(principalKey).(string); ok {
		return p
	}
	return ""
}
