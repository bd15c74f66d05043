package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	admindto "github.com/opsboard/opsboard/internal/http/dto/admin"
	authdto "github.com/opsboard/opsboard/internal/http/dto/auth"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	svc "github.com/opsboard/opsboard/internal/http/services/admin"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// UsersController maneja el CRUD de cuentas. Rutas detrás de
// RequireAuth + RequireAdmin.
type UsersController struct {
	service svc.UsersService
}

// NewUsersController crea el controller de usuarios.
func NewUsersController(service svc.UsersService) *UsersController {
	return &UsersController{service: service}
}

// List maneja GET /api/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	accounts, total, err := c.service.List(ctx, limit, offset)
	if err != nil {
		logger.From(ctx).Error("user list failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	users := make([]authdto.User, 0, len(accounts))
	for i := range accounts {
		users = append(users, authdto.UserFromAccount(&accounts[i]))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(admindto.UserListResponse{Users: users, Total: total})
}

// Create maneja POST /api/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Create"))

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req admindto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	acc, err := c.service.Create(ctx, p.Account, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("user create failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"user": authdto.UserFromAccount(acc)})
}

// Update maneja PATCH /api/users/{id}
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Update"))

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing user id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req admindto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	acc, err := c.service.Update(ctx, p.Account, id, req, mw.ClientIP(r))
	if err != nil {
		log.Debug("user update failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"user": authdto.UserFromAccount(acc)})
}

// Delete maneja DELETE /api/users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := mw.GetPrincipal(ctx)
	if p == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing user id"))
		return
	}

	if err := c.service.Delete(ctx, p.Account, id, mw.ClientIP(r)); err != nil {
		logger.From(ctx).Debug("user delete failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(authdto.MessageResponse{Message: "user deleted"})
}
