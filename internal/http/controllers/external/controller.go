// Package external contiene el controller de la superficie externa.
// Todas las rutas van detrás de RequireSignupKey (X-API-Key).
package external

import (
	"encoding/json"
	"errors"
	"net/http"

	httpx "github.com/opsboard/opsboard/internal/http"
	authdto "github.com/opsboard/opsboard/internal/http/dto/auth"
	extdto "github.com/opsboard/opsboard/internal/http/dto/external"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	authsvc "github.com/opsboard/opsboard/internal/http/services/auth"
	svc "github.com/opsboard/opsboard/internal/http/services/external"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

const contentTypeJSON = "application/json; charset=utf-8"

const maxBodySize = 64 * 1024 // 64KB

// Controller maneja register/verify/login externos.
type Controller struct {
	service svc.Service
}

// NewController crea el controller externo.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Register maneja POST /api/external/register y POST /api/public/signup
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ExternalController.Register"))

	key := mw.GetSignupKey(ctx)
	if key == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req extdto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.Register(ctx, key, req, mw.ClientIP(r)); err != nil {
		log.Debug("external register failed", logger.Err(err))
		writeExternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(extdto.RegisterResponse{
		Message: "verification code sent",
		AppName: key.AppName,
	})
}

// Verify maneja POST /api/external/verify
func (c *Controller) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ExternalController.Verify"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req extdto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Verify(ctx, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("external verify failed", logger.Err(err))
		writeExternalError(w, err)
		return
	}

	resp := extdto.VerifyResponse{Message: "email verified, awaiting approval"}
	if result.Activated {
		user := authdto.UserFromAccount(result.Account)
		resp = extdto.VerifyResponse{
			Message:      "email verified, account active",
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			User:         &user,
		}
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// Login maneja POST /api/external/login. El refresh token viaja en el
// body: los clientes externos no usan cookie de sesión.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ExternalController.Login"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req extdto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Login(ctx, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("external login failed", logger.Err(err))
		httpx.IncAuthAttempt("external_login", "failure")
		writeExternalError(w, err)
		return
	}
	httpx.IncAuthAttempt("external_login", "success")

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(extdto.LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         authdto.UserFromAccount(result.Account),
	})
}

func writeExternalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email, password and name are required"))

	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("password must be at least 8 characters"))

	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("email already registered"))

	case errors.Is(err, authsvc.ErrInvalidCode):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid or expired code"))

	case errors.Is(err, authsvc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("invalid email or password"))

	case errors.Is(err, authsvc.ErrAccountPending):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("account pending approval"))

	case errors.Is(err, authsvc.ErrAccountBlocked):
		httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("account blocked"))

	case errors.Is(err, svc.ErrSendFailed):
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("failed to send verification email"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
