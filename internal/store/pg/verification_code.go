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

type verificationCodeRepo struct{ pool *pgxpool.Pool }

func (r *verificationCodeRepo) Create(ctx context.Context, input repository.CreateVerificationCodeInput) (*repository.VerificationCode, error) {
	const query = `
		INSERT INTO verification_code (id, email, code, expires_at, signup_key_id, app_name, auto_approve)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, code, expires_at, used, signup_key_id, app_name, auto_approve, created_at`
	var vc repository.VerificationCode
	err := r.pool.QueryRow(ctx, query,
		uuid.NewString(), input.Email, input.Code, input.ExpiresAt, input.SignupKeyID, input.AppName, input.AutoApprove,
	).Scan(&vc.ID, &vc.Email, &vc.Code, &vc.ExpiresAt, &vc.Used,
		&vc.SignupKeyID, &vc.AppName, &vc.AutoApprove, &vc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

// Consume es un único UPDATE condicional: dos requests concurrentes con el
// mismo código compiten por la fila y a lo sumo uno la consume.
func (r *verificationCodeRepo) Consume(ctx context.Context, email, code string, now time.Time) (*repository.VerificationCode, error) {
	const query = `
		UPDATE verification_code SET used = TRUE
		WHERE id = (
			SELECT id FROM verification_code
			WHERE email = $1 AND code = $2 AND used = FALSE AND expires_at > $3
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, email, code, expires_at, used, signup_key_id, app_name, auto_approve, created_at`
	var vc repository.VerificationCode
	err := r.pool.QueryRow(ctx, query, email, code, now).Scan(
		&vc.ID, &vc.Email, &vc.Code, &vc.ExpiresAt, &vc.Used,
		&vc.SignupKeyID, &vc.AppName, &vc.AutoApprove, &vc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *verificationCodeRepo) GetLatestByEmail(ctx context.Context, email string) (*repository.VerificationCode, error) {
	const query = `
		SELECT id, email, code, expires_at, used, signup_key_id, app_name, auto_approve, created_at
		FROM verification_code
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1`
	var vc repository.VerificationCode
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&vc.ID, &vc.Email, &vc.Code, &vc.ExpiresAt, &vc.Used,
		&vc.SignupKeyID, &vc.AppName, &vc.AutoApprove, &vc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vc, nil
}
