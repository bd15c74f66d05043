package auth

import (
	"encoding/json"
	"net/http"

	httpx "github.com/opsboard/opsboard/internal/http"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	svc "github.com/opsboard/opsboard/internal/http/services/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// SessionController maneja refresh y logout.
type SessionController struct {
	service svc.SessionService
	cookie  CookieConfig
}

// NewSessionController crea un nuevo controller de sesión.
func NewSessionController(service svc.SessionService, cookie CookieConfig) *SessionController {
	return &SessionController{service: service, cookie: cookie}
}

// Refresh maneja POST /api/auth/refresh. Lee el refresh token de la cookie.
func (c *SessionController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionController.Refresh"))

	raw := readRefreshCookie(r, c.cookie)
	if raw == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("missing refresh token"))
		return
	}

	result, err := c.service.Refresh(ctx, raw)
	if err != nil {
		log.Debug("refresh failed", logger.Err(err))
		httpx.IncAuthAttempt("refresh", "failure")
		// Token inválido o vencido: limpiar la cookie del cliente
		clearRefreshCookie(w, c.cookie)
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("invalid refresh token"))
		return
	}
	httpx.IncAuthAttempt("refresh", "success")

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.LoginResponse{
		AccessToken: result.AccessToken,
		User:        dto.UserFromAccount(result.Account),
	})
}

// Logout maneja POST /api/auth/logout. Idempotente: repetir con la cookie
// ya borrada no es error.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := readRefreshCookie(r, c.cookie)
	if err := c.service.Logout(ctx, raw, mw.ClientIP(r)); err != nil {
		logger.From(ctx).Warn("logout failed", logger.Err(err))
	}

	clearRefreshCookie(w, c.cookie)

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: "logged out"})
}
