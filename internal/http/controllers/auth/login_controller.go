package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	httpx "github.com/opsboard/opsboard/internal/http"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	svc "github.com/opsboard/opsboard/internal/http/services/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// LoginController maneja el endpoint de login.
type LoginController struct {
	service svc.LoginService
	cookie  CookieConfig
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService, cookie CookieConfig) *LoginController {
	return &LoginController{service: service, cookie: cookie}
}

// Login maneja POST /api/auth/login
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Login(ctx, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		httpx.IncAuthAttempt("login", "failure")
		writeLoginError(w, err)
		return
	}
	httpx.IncAuthAttempt("login", "success")

	// El refresh token viaja solo en la cookie; nunca en el body.
	setRefreshCookie(w, c.cookie, result.RefreshToken)

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.LoginResponse{
		AccessToken: result.AccessToken,
		User:        dto.UserFromAccount(result.Account),
	})
}

// ─── Helpers ───

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email and password are required"))

	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("invalid email or password"))

	case errors.Is(err, svc.ErrAccountPending):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("account pending approval"))

	case errors.Is(err, svc.ErrAccountBlocked):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("account blocked"))

	case errors.Is(err, svc.ErrTokenIssueFailed):
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("failed to issue tokens"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
