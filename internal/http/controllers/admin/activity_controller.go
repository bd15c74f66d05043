package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	admindto "github.com/opsboard/opsboard/internal/http/dto/admin"
	svc "github.com/opsboard/opsboard/internal/http/services/admin"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// ActivityController expone el log de actividad.
type ActivityController struct {
	service svc.ActivityService
}

// NewActivityController crea el controller de actividad.
func NewActivityController(service svc.ActivityService) *ActivityController {
	return &ActivityController{service: service}
}

// List maneja GET /api/activity
func (c *ActivityController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := c.service.List(ctx, limit, offset)
	if err != nil {
		logger.From(ctx).Error("activity list failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	views := make([]admindto.Activity, 0, len(entries))
	for _, e := range entries {
		views = append(views, admindto.Activity{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Detail:    e.Detail,
			IP:        e.IP,
			CreatedAt: e.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(admindto.ActivityListResponse{Entries: views})
}
