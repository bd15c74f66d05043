package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type apiKeyRepo struct{ pool *pgxpool.Pool }

const apiKeyCols = `id, account_id, name, secret_hash, masked, active, last_used_at, created_at`

func scanAPIKey(row pgx.Row) (*repository.APIKey, error) {
	var k repository.APIKey
	err := row.Scan(&k.ID, &k.AccountID, &k.Name, &k.SecretHash, &k.Masked,
		&k.Active, &k.LastUsedAt, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *apiKeyRepo) Create(ctx context.Context, input repository.CreateAPIKeyInput) (*repository.APIKey, error) {
	const query = `
		INSERT INTO api_key (id, account_id, name, secret_hash, masked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + apiKeyCols
	return scanAPIKey(r.pool.QueryRow(ctx, query,
		uuid.NewString(), input.AccountID, input.Name, input.SecretHash, input.Masked))
}

func (r *apiKeyRepo) GetBySecretHash(ctx context.Context, secretHash string) (*repository.APIKey, error) {
	const query = `SELECT ` + apiKeyCols + ` FROM api_key WHERE secret_hash = $1`
	return scanAPIKey(r.pool.QueryRow(ctx, query, secretHash))
}

func (r *apiKeyRepo) GetByID(ctx context.Context, id string) (*repository.APIKey, error) {
	const query = `SELECT ` + apiKeyCols + ` FROM api_key WHERE id = $1`
	return scanAPIKey(r.pool.QueryRow(ctx, query, id))
}

func (r *apiKeyRepo) ListByAccount(ctx context.Context, accountID string) ([]repository.APIKey, error) {
	const query = `SELECT ` + apiKeyCols + ` FROM api_key WHERE account_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []repository.APIKey
	for rows.Next() {
		var k repository.APIKey
		if err := rows.Scan(&k.ID, &k.AccountID, &k.Name, &k.SecretHash, &k.Masked,
			&k.Active, &k.LastUsedAt, &k.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *apiKeyRepo) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE api_key SET active = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE api_key SET last_used_at = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, at)
	return err
}

func (r *apiKeyRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM api_key WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
