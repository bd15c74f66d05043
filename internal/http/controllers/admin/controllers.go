// Package admin contiene los controllers de administración.
package admin

import (
	"errors"
	"net/http"

	"github.com/opsboard/opsboard/internal/domain/repository"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	svc "github.com/opsboard/opsboard/internal/http/services/admin"
)

const contentTypeJSON = "application/json; charset=utf-8"

const maxBodySize = 64 * 1024 // 64KB

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Users      *UsersController
	SignupKeys *SignupKeysController
	Activity   *ActivityController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Users:      NewUsersController(s.Users),
		SignupKeys: NewSignupKeysController(s.SignupKeys),
		Activity:   NewActivityController(s.Activity),
	}
}

// writeAdminError mapea errores de services admin a HTTP.
func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid or missing fields"))

	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid field value"))

	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("email already registered"))

	case errors.Is(err, svc.ErrSelfDelete):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("cannot delete own account"))

	case repository.IsNotFound(err):
		httperrors.WriteError(w, httperrors.ErrNotFound)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
