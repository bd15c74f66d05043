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

type accountRepo struct{ pool *pgxpool.Pool }

const accountCols = `id, email, password_hash, name, role, status, deleted_at, created_at, last_login_at`

func scanAccount(row pgx.Row) (*repository.Account, error) {
	var a repository.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.Status,
		&a.DeletedAt, &a.CreatedAt, &a.LastLoginAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	const query = `
		INSERT INTO account (id, email, password_hash, name, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountCols
	a, err := scanAccount(r.pool.QueryRow(ctx, query,
		uuid.NewString(), input.Email, input.PasswordHash, input.Name, input.Role, input.Status))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return a, err
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	const query = `SELECT ` + accountCols + ` FROM account WHERE id = $1 AND deleted_at IS NULL`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*repository.Account, error) {
	const query = `SELECT ` + accountCols + ` FROM account WHERE email = $1 AND deleted_at IS NULL`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepo) List(ctx context.Context, limit, offset int) ([]repository.Account, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `
		SELECT ` + accountCols + ` FROM account
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []repository.Account
	for rows.Next() {
		var a repository.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.Status,
			&a.DeletedAt, &a.CreatedAt, &a.LastLoginAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM account WHERE deleted_at IS NULL`
	var n int
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}

func (r *accountRepo) Update(ctx context.Context, id string, input repository.UpdateAccountInput) (*repository.Account, error) {
	const query = `
		UPDATE account SET
			name   = COALESCE($2, name),
			email  = COALESCE($3, email),
			role   = COALESCE($4, role),
			status = COALESCE($5, status)
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + accountCols
	a, err := scanAccount(r.pool.QueryRow(ctx, query,
		id, input.Name, input.Email, input.Role, input.Status))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return a, err
}

func (r *accountRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const query = `UPDATE account SET password_hash = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE account SET last_login_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.pool.Exec(ctx, query, id, at)
	return err
}

func (r *accountRepo) SoftDelete(ctx context.Context, id string) error {
	const query = `UPDATE account SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
