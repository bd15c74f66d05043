package admin

import (
	"context"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type activityService struct {
	deps Deps
}

// NewActivityService crea el servicio de consulta del log de actividad.
func NewActivityService(deps Deps) ActivityService {
	return &activityService{deps: deps}
}

func (s *activityService) List(ctx context.Context, limit, offset int) ([]repository.Activity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.deps.Activity.List(ctx, limit, offset)
}
