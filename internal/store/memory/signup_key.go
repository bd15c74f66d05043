package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type signupKeyRepo struct {
	store *Store
	byID  map[string]*repository.SignupKey
}

func (r *signupKeyRepo) Create(ctx context.Context, input repository.CreateSignupKeyInput) (*repository.SignupKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := &repository.SignupKey{
		ID:          uuid.NewString(),
		AccountID:   input.AccountID,
		AppName:     input.AppName,
		SecretHash:  input.SecretHash,
		Masked:      input.Masked,
		Active:      true,
		AutoApprove: input.AutoApprove,
		RateLimit:   input.RateLimit,
		CreatedAt:   time.Now().UTC(),
	}
	r.byID[k.ID] = k
	cp := *k
	return &cp, nil
}

func (r *signupKeyRepo) GetBySecretHash(ctx context.Context, secretHash string) (*repository.SignupKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, k := range r.byID {
		if k.SecretHash == secretHash {
			cp := *k
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *signupKeyRepo) GetByID(ctx context.Context, id string) (*repository.SignupKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *k
	return &cp, nil
}

func (r *signupKeyRepo) List(ctx context.Context) ([]repository.SignupKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var keys []repository.SignupKey
	for _, k := range r.byID {
		keys = append(keys, *k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.After(keys[j].CreatedAt) })
	return keys, nil
}

func (r *signupKeyRepo) Update(ctx context.Context, id string, input repository.UpdateSignupKeyInput) (*repository.SignupKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.AppName != nil {
		k.AppName = *input.AppName
	}
	if input.Active != nil {
		k.Active = *input.Active
	}
	if input.AutoApprove != nil {
		k.AutoApprove = *input.AutoApprove
	}
	if input.RateLimit != nil {
		k.RateLimit = *input.RateLimit
	}
	cp := *k
	return &cp, nil
}

func (r *signupKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if k, ok := r.byID[id]; ok {
		k.LastUsedAt = &at
	}
	return nil
}

func (r *signupKeyRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
