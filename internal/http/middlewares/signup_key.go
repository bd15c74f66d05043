package middlewares

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/internal/http/errors"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/rate"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

// SignupKeyDeps agrupa las dependencias de RequireSignupKey.
type SignupKeyDeps struct {
	SignupKeys repository.SignupKeyRepository
	Accounts   repository.AccountRepository
	Limiter    rate.Limiter
	// DefaultLimit se usa cuando la key no trae límite propio.
	DefaultLimit int
	// Window es la ventana del rate limit.
	Window time.Duration
}

// RequireSignupKey valida el header X-API-Key contra las signup keys y
// aplica el rate limit por key. Toda la superficie externa pasa por acá,
// incluso las rutas que parecen públicas: cada request externo queda
// atribuido a una key de tenant.
func RequireSignupKey(deps SignupKeyDeps) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := strings.TrimSpace(r.Header.Get("X-API-Key"))
			if secret == "" {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("missing X-API-Key header"))
				return
			}

			ctx := r.Context()
			key, err := deps.SignupKeys.GetBySecretHash(ctx, tokens.SHA256Hex(secret))
			if err != nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("invalid api key"))
				return
			}
			if !key.Active {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("invalid api key"))
				return
			}

			// La cuenta dueña de la key debe seguir activa.
			owner, err := deps.Accounts.GetByID(ctx, key.AccountID)
			if err != nil || !owner.IsActive() {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("invalid api key"))
				return
			}

			// Rate limiting por key (cada key puede traer su propio límite)
			if deps.Limiter != nil {
				limit := key.RateLimit
				if limit <= 0 {
					limit = deps.DefaultLimit
				}
				res, lerr := deps.Limiter.AllowWithLimit(ctx, "signup:"+key.ID, limit, deps.Window)
				if lerr != nil {
					// Limiter caído: dejamos pasar pero lo registramos.
					logger.From(ctx).Warn("rate limiter unavailable",
						logger.SignupKeyID(key.ID),
						logger.Err(lerr),
					)
				} else {
					w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
					w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
					if !res.Allowed {
						if res.RetryAfter > 0 {
							w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
						}
						errors.WriteError(w, errors.ErrTooManyRequests)
						return
					}
				}
			}

			// Side effect: marcar uso de la key
			if err := deps.SignupKeys.TouchLastUsed(ctx, key.ID, time.Now().UTC()); err != nil {
				logger.From(ctx).Warn("signup key last-used update failed",
					logger.SignupKeyID(key.ID),
					logger.Err(err),
				)
			}

			next.ServeHTTP(w, r.WithContext(WithSignupKey(ctx, key)))
		})
	}
}
