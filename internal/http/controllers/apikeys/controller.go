// Package apikeys contiene el controller de API keys propias.
// Rutas detrás de RequireAuth.
package apikeys

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opsboard/opsboard/internal/domain/repository"
	authdto "github.com/opsboard/opsboard/internal/http/dto/auth"
	dto "github.com/opsboard/opsboard/internal/http/dto/apikeys"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	svc "github.com/opsboard/opsboard/internal/http/services/apikeys"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

const contentTypeJSON = "application/json; charset=utf-8"

const maxBodySize = 16 * 1024 // 16KB

// Controller maneja las API keys de la cuenta autenticada.
type Controller struct {
	service svc.Service
}

// NewController crea el controller de API keys.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func keyView(k *repository.APIKey, secret string) dto.APIKey {
	return dto.APIKey{
		ID:         k.ID,
		Name:       k.Name,
		Key:        secret, // vacío salvo en la creación
		MaskedKey:  k.Masked,
		Active:     k.Active,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

// Create maneja POST /api/keys
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("APIKeysController.Create"))

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	key, secret, err := c.service.Create(ctx, p.Account, req.Name, mw.ClientIP(r))
	if err != nil {
		log.Debug("api key create failed", logger.Err(err))
		writeAPIKeyError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(keyView(key, secret))
}

// List maneja GET /api/keys
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	keys, err := c.service.List(ctx, p.Account)
	if err != nil {
		logger.From(ctx).Error("api key list failed", logger.Err(err))
		writeAPIKeyError(w, err)
		return
	}

	views := make([]dto.APIKey, 0, len(keys))
	for i := range keys {
		views = append(views, keyView(&keys[i], ""))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.ListResponse{Keys: views})
}

// SetActive maneja PATCH /api/keys/{id}
func (c *Controller) SetActive(w http.ResponseWriter, r *http.Request) {
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

	var req dto.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	key, err := c.service.SetActive(ctx, p.Account, id, req.Active, mw.ClientIP(r))
	if err != nil {
		logger.From(ctx).Debug("api key toggle failed", logger.Err(err))
		writeAPIKeyError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(keyView(key, ""))
}

// Delete maneja DELETE /api/keys/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
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
		logger.From(ctx).Debug("api key delete failed", logger.Err(err))
		writeAPIKeyError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(authdto.MessageResponse{Message: "api key deleted"})
}

func writeAPIKeyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("name is required"))

	case repository.IsNotFound(err):
		httperrors.WriteError(w, httperrors.ErrNotFound)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
