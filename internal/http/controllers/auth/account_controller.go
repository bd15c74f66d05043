package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	svc "github.com/opsboard/opsboard/internal/http/services/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// AccountController maneja la cuenta propia: me, perfil y password.
// Todas sus rutas van detrás de RequireAuth.
type AccountController struct {
	service svc.AccountService
}

// NewAccountController crea un nuevo controller de cuenta.
func NewAccountController(service svc.AccountService) *AccountController {
	return &AccountController{service: service}
}

// Me maneja GET /api/auth/me. Solo proyecta el principal ya resuelto.
func (c *AccountController) Me(w http.ResponseWriter, r *http.Request) {
	p := mw.GetPrincipal(r.Context())
	if p == nil || p.Account == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user":       dto.UserFromAccount(p.Account),
		"authMethod": p.Method,
	})
}

// UpdateProfile maneja PATCH /api/auth/profile
func (c *AccountController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AccountController.UpdateProfile"))

	p := mw.GetPrincipal(ctx)
	if p == nil || p.Account == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	updated, err := c.service.UpdateProfile(ctx, p.Account, req)
	if err != nil {
		log.Debug("profile update failed", logger.Err(err))
		writeAccountError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"user": dto.UserFromAccount(updated)})
}

// ChangePassword maneja POST /api/auth/change-password
func (c *AccountController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AccountController.ChangePassword"))

	p := mw.GetPrincipal(ctx)
	if p == nil || p.Account == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.ChangePassword(ctx, p.Account, req, mw.ClientIP(r)); err != nil {
		log.Debug("change password failed", logger.Err(err))
		writeAccountError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: "password changed"})
}

func writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid or missing fields"))

	case errors.Is(err, svc.ErrWrongPassword):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("current password does not match"))

	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("email already registered"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
