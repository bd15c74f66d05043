package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type verificationCodeRepo struct {
	store *Store
	codes []*repository.VerificationCode // orden de inserción
}

func (r *verificationCodeRepo) Create(ctx context.Context, input repository.CreateVerificationCodeInput) (*repository.VerificationCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	vc := &repository.VerificationCode{
		ID:          uuid.NewString(),
		Email:       input.Email,
		Code:        input.Code,
		ExpiresAt:   input.ExpiresAt,
		SignupKeyID: input.SignupKeyID,
		AppName:     input.AppName,
		AutoApprove: input.AutoApprove,
		CreatedAt:   time.Now().UTC(),
	}
	r.codes = append(r.codes, vc)
	cp := *vc
	return &cp, nil
}

func (r *verificationCodeRepo) Consume(ctx context.Context, email, code string, now time.Time) (*repository.VerificationCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, vc := range r.codes {
		if vc.Email == email && vc.Code == code && !vc.Used && vc.ExpiresAt.After(now) {
			vc.Used = true
			cp := *vc
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *verificationCodeRepo) GetLatestByEmail(ctx context.Context, email string) (*repository.VerificationCode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := len(r.codes) - 1; i >= 0; i-- {
		if r.codes[i].Email == email {
			cp := *r.codes[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}
