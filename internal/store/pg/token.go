package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type refreshTokenRepo struct{ pool *pgxpool.Pool }

func (r *refreshTokenRepo) Create(ctx context.Context, input repository.CreateRefreshTokenInput) (string, error) {
	const query = `
		INSERT INTO refresh_token (id, account_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)`
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, query, id, input.AccountID, input.TokenHash, input.ExpiresAt)
	return id, err
}

func (r *refreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*repository.RefreshToken, error) {
	const query = `
		SELECT id, account_id, token_hash, expires_at, created_at
		FROM refresh_token WHERE token_hash = $1`
	var t repository.RefreshToken
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&t.ID, &t.AccountID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *refreshTokenRepo) Delete(ctx context.Context, tokenHash string) error {
	const query = `DELETE FROM refresh_token WHERE token_hash = $1`
	_, err := r.pool.Exec(ctx, query, tokenHash)
	return err
}

func (r *refreshTokenRepo) DeleteAllByAccount(ctx context.Context, accountID string) (int, error) {
	const query = `DELETE FROM refresh_token WHERE account_id = $1`
	tag, err := r.pool.Exec(ctx, query, accountID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
