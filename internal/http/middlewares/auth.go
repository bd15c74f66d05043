package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
	httpx "github.com/opsboard/opsboard/internal/http"
	"github.com/opsboard/opsboard/internal/http/errors"
	jwtx "github.com/opsboard/opsboard/internal/jwt"
	"github.com/opsboard/opsboard/internal/observability/logger"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// AuthDeps agrupa las dependencias de RequireAuth.
type AuthDeps struct {
	Issuer   *jwtx.Issuer
	Accounts repository.AccountRepository
	APIKeys  repository.APIKeyRepository
}

// RequireAuth valida Authorization: Bearer <credencial> y guarda el Principal
// resuelto en el contexto. La credencial puede ser un JWT de acceso o una
// API key (distinguida por su prefijo); ambas se resuelven a un Principal
// uniforme. Si la credencial es inválida o falta, responde 401.
func RequireAuth(deps AuthDeps) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("missing bearer token"))
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			var p *Principal
			var err error
			surface := "token"
			if tokens.HasAPIKeyPrefix(raw) {
				surface = "api_key"
				p, err = resolveAPIKey(r, deps, raw)
			} else {
				p, err = resolveAccessToken(r, deps, raw)
			}
			if err != nil {
				httpx.IncAuthAttempt(surface, "failure")
				errors.WriteError(w, err)
				return
			}
			httpx.IncAuthAttempt(surface, "success")

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// resolveAPIKey resuelve una API key a su cuenta dueña.
// Key inexistente o inactiva => 401. Cuenta no activa => 401.
func resolveAPIKey(r *http.Request, deps AuthDeps, secret string) (*Principal, error) {
	ctx := r.Context()

	key, err := deps.APIKeys.GetBySecretHash(ctx, tokens.SHA256Hex(secret))
	if err != nil {
		return nil, errors.ErrUnauthorized.WithDetail("invalid api key")
	}
	if !key.Active {
		return nil, errors.ErrUnauthorized.WithDetail("invalid api key")
	}

	acc, err := deps.Accounts.GetByID(ctx, key.AccountID)
	if err != nil || !acc.IsActive() {
		return nil, errors.ErrUnauthorized.WithDetail("invalid api key")
	}

	// Side effect: marcar uso. No bloquea la autenticación si falla.
	if err := deps.APIKeys.TouchLastUsed(ctx, key.ID, time.Now().UTC()); err != nil {
		logger.From(ctx).Warn("api key last-used update failed",
			logger.APIKeyID(key.ID),
			logger.Err(err),
		)
	}

	return &Principal{Account: acc, Method: AuthMethodAPIKey, APIKey: key}, nil
}

// resolveAccessToken resuelve un JWT de acceso a su cuenta.
// Firma/expiración inválida => 401. Cuenta inexistente => 401.
// Cuenta no activa => 403 (credencial válida, estado insuficiente).
func resolveAccessToken(r *http.Request, deps AuthDeps, raw string) (*Principal, error) {
	claims, err := deps.Issuer.ParseAccess(raw)
	if err != nil {
		return nil, errors.ErrUnauthorized.WithDetail("invalid or expired token")
	}

	acc, err := deps.Accounts.GetByID(r.Context(), claims.Subject)
	if err != nil {
		return nil, errors.ErrUnauthorized.WithDetail("account not found")
	}
	if !acc.IsActive() {
		return nil, errors.ErrForbidden.WithDetail("account is not active")
	}

	return &Principal{Account: acc, Method: AuthMethodBearer}, nil
}
