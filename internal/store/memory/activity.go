package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type activityRepo struct {
	store  *Store
	events []repository.Activity
}

func (r *activityRepo) Append(ctx context.Context, input repository.AppendActivityInput) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.events = append(r.events, repository.Activity{
		ID:        uuid.NewString(),
		ActorID:   input.ActorID,
		Action:    input.Action,
		Detail:    input.Detail,
		IP:        input.IP,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *activityRepo) List(ctx context.Context, limit, offset int) ([]repository.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	// más reciente primero
	var out []repository.Activity
	for i := len(r.events) - 1; i >= 0; i-- {
		out = append(out, r.events[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
