package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type activityRepo struct{ pool *pgxpool.Pool }

func (r *activityRepo) Append(ctx context.Context, input repository.AppendActivityInput) error {
	const query = `
		INSERT INTO activity_log (id, actor_id, action, detail, ip)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, uuid.NewString(), input.ActorID, input.Action, input.Detail, input.IP)
	return err
}

func (r *activityRepo) List(ctx context.Context, limit, offset int) ([]repository.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
		SELECT id, actor_id, action, detail, ip, created_at
		FROM activity_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []repository.Activity
	for rows.Next() {
		var a repository.Activity
		if err := rows.Scan(&a.ID, &a.ActorID, &a.Action, &a.Detail, &a.IP, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
