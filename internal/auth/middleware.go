package auth

import (
	"net/http"
	"strings"

	"github.com/avp818/coach-hub/internal/userctx"
)

// Middleware guards the API with Bearer token authentication.
type Middleware struct {
	service *Service
}

func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth rejects requests without a valid Bearer token. Health check
// and the auth endpoints themselves stay public.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID, role, err := m.authenticateHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		ctx := userctx.WithUserID(r.Context(), userID)
		ctx = userctx.WithRole(ctx, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) authenticateHeader(authHeader string) (string, string, error) {
	if authHeader == "" {
		return "", "", ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", ErrInvalidToken
	}

	return m.service.VerifyJWT(parts[1])
}

func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/v1/auth/")
}
