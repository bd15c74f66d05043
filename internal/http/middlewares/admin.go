package middlewares

import (
	"net/http"

	"github.com/opsboard/opsboard/internal/http/errors"
)

// RequireAdmin valida que el principal resuelto tenga rol admin.
// Debe usarse después de RequireAuth.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("no principal in context"))
				return
			}
			if !p.IsAdmin() {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("admin required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
