// Package audit escribe el log de actividad append-only.
package audit

import (
	"context"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/internal/observability/logger"
)

// Recorder escribe eventos de actividad. Best-effort: una falla del store se
// loguea y no se propaga, un request nunca falla por no poder auditarse.
type Recorder struct {
	repo repository.ActivityRepository
}

// NewRecorder crea un Recorder sobre el repositorio de actividad.
func NewRecorder(repo repository.ActivityRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record registra un evento. El contexto del request puede estar cancelado
// para cuando escribimos; usamos un timeout propio corto.
func (r *Recorder) Record(ctx context.Context, actorID, action, detail, ip string) {
	if r == nil || r.repo == nil {
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := r.repo.Append(wctx, repository.AppendActivityInput{
		ActorID: actorID,
		Action:  action,
		Detail:  detail,
		IP:      ip,
	})
	if err != nil {
		logger.From(ctx).Warn("activity append failed",
			logger.Action(action),
			logger.Err(err),
		)
	}
}
