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

type signupKeyRepo struct{ pool *pgxpool.Pool }

const signupKeyCols = `id, account_id, app_name, secret_hash, masked, active, auto_approve, rate_limit, last_used_at, created_at`

func scanSignupKey(row pgx.Row) (*repository.SignupKey, error) {
	var k repository.SignupKey
	err := row.Scan(&k.ID, &k.AccountID, &k.AppName, &k.SecretHash, &k.Masked,
		&k.Active, &k.AutoApprove, &k.RateLimit, &k.LastUsedAt, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *signupKeyRepo) Create(ctx context.Context, input repository.CreateSignupKeyInput) (*repository.SignupKey, error) {
	const query = `
		INSERT INTO signup_key (id, account_id, app_name, secret_hash, masked, auto_approve, rate_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + signupKeyCols
	return scanSignupKey(r.pool.QueryRow(ctx, query,
		uuid.NewString(), input.AccountID, input.AppName, input.SecretHash, input.Masked, input.AutoApprove, input.RateLimit))
}

func (r *signupKeyRepo) GetBySecretHash(ctx context.Context, secretHash string) (*repository.SignupKey, error) {
	const query = `SELECT ` + signupKeyCols + ` FROM signup_key WHERE secret_hash = $1`
	return scanSignupKey(r.pool.QueryRow(ctx, query, secretHash))
}

func (r *signupKeyRepo) GetByID(ctx context.Context, id string) (*repository.SignupKey, error) {
	const query = `SELECT ` + signupKeyCols + ` FROM signup_key WHERE id = $1`
	return scanSignupKey(r.pool.QueryRow(ctx, query, id))
}

func (r *signupKeyRepo) List(ctx context.Context) ([]repository.SignupKey, error) {
	const query = `SELECT ` + signupKeyCols + ` FROM signup_key ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []repository.SignupKey
	for rows.Next() {
		var k repository.SignupKey
		if err := rows.Scan(&k.ID, &k.AccountID, &k.AppName, &k.SecretHash, &k.Masked,
			&k.Active, &k.AutoApprove, &k.RateLimit, &k.LastUsedAt, &k.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (r *signupKeyRepo) Update(ctx context.Context, id string, input repository.UpdateSignupKeyInput) (*repository.SignupKey, error) {
	const query = `
		UPDATE signup_key SET
			app_name     = COALESCE($2, app_name),
			active       = COALESCE($3, active),
			auto_approve = COALESCE($4, auto_approve),
			rate_limit   = COALESCE($5, rate_limit)
		WHERE id = $1
		RETURNING ` + signupKeyCols
	return scanSignupKey(r.pool.QueryRow(ctx, query,
		id, input.AppName, input.Active, input.AutoApprove, input.RateLimit))
}

func (r *signupKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE signup_key SET last_used_at = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, at)
	return err
}

func (r *signupKeyRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM signup_key WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
