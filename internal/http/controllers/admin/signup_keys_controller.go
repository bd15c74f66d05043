package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opsboard/opsboard/internal/domain/repository"
	admindto "github.com/opsboard/opsboard/internal/http/dto/admin"
	authdto "github.com/opsboard/opsboard/internal/http/dto/auth"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	svc "github.com/opsboard/opsboard/internal/http/services/admin"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// SignupKeysController maneja el CRUD de signup keys externas.
type SignupKeysController struct {
	service svc.SignupKeysService
}

// NewSignupKeysController crea el controller de signup keys.
func NewSignupKeysController(service svc.SignupKeysService) *SignupKeysController {
	return &SignupKeysController{service: service}
}

func signupKeyView(k *repository.SignupKey, secret string) admindto.SignupKey {
	return admindto.SignupKey{
		ID:          k.ID,
		AppName:     k.AppName,
		Key:         secret, // vacío salvo en la creación
		MaskedKey:   k.Masked,
		Active:      k.Active,
		AutoApprove: k.AutoApprove,
		RateLimit:   k.RateLimit,
		LastUsedAt:  k.LastUsedAt,
		CreatedAt:   k.CreatedAt,
	}
}

// Create maneja POST /api/signup-keys
func (c *SignupKeysController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SignupKeysController.Create"))

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req admindto.CreateSignupKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	key, secret, err := c.service.Create(ctx, p.Account, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("signup key create failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(signupKeyView(key, secret))
}

// List maneja GET /api/signup-keys
func (c *SignupKeysController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keys, err := c.service.List(ctx)
	if err != nil {
		logger.From(ctx).Error("signup key list failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	views := make([]admindto.SignupKey, 0, len(keys))
	for i := range keys {
		views = append(views, signupKeyView(&keys[i], ""))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(admindto.SignupKeyListResponse{Keys: views})
}

// Update maneja PATCH /api/signup-keys/{id}
func (c *SignupKeysController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing key id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req admindto.UpdateSignupKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	key, err := c.service.Update(ctx, p.Account, id, req, mw.ClientIP(r))
	if err != nil {
		logger.From(ctx).Debug("signup key update failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(signupKeyView(key, ""))
}

// Delete maneja DELETE /api/signup-keys/{id}
func (c *SignupKeysController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing key id"))
		return
	}

	if err := c.service.Delete(ctx, p.Account, id, mw.ClientIP(r)); err != nil {
		logger.From(ctx).Debug("signup key delete failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(authdto.MessageResponse{Message: "signup key deleted"})
}
