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

// VerifyController maneja verificación de email y reenvío de códigos.
type VerifyController struct {
	service svc.VerifyService
}

// NewVerifyController crea un nuevo controller de verificación.
func NewVerifyController(service svc.VerifyService) *VerifyController {
	return &VerifyController{service: service}
}

// Verify maneja POST /api/auth/verify
func (c *VerifyController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("VerifyController.Verify"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Verify(ctx, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("verify failed", logger.Err(err))
		writeVerifyError(w, err)
		return
	}

	msg := "email verified, awaiting approval"
	if result.Activated {
		msg = "email verified, account active"
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: msg})
}

// ResendCode maneja POST /api/auth/resend-code
func (c *VerifyController) ResendCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("VerifyController.ResendCode"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.ResendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.ResendCode(ctx, req.Email); err != nil {
		log.Debug("resend failed", logger.Err(err))
		writeVerifyError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: "verification code sent"})
}

func writeVerifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email and code are required"))

	// Código inexistente, usado o expirado: mismo mensaje plano para todos
	case errors.Is(err, svc.ErrInvalidCode):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid or expired code"))

	case errors.Is(err, svc.ErrSendFailed):
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("failed to send verification email"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
