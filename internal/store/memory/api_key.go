package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type apiKeyRepo struct {
	store *Store
	byID  map[string]*repository.APIKey
}

func (r *apiKeyRepo) Create(ctx context.Context, input repository.CreateAPIKeyInput) (*repository.APIKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := &repository.APIKey{
		ID:         uuid.NewString(),
		AccountID:  input.AccountID,
		Name:       input.Name,
		SecretHash: input.SecretHash,
		Masked:     input.Masked,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	r.byID[k.ID] = k
	cp := *k
	return &cp, nil
}

func (r *apiKeyRepo) GetBySecretHash(ctx context.Context, secretHash string) (*repository.APIKey, error) {
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

func (r *apiKeyRepo) GetByID(ctx context.Context, id string) (*repository.APIKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *k
	return &cp, nil
}

func (r *apiKeyRepo) ListByAccount(ctx context.Context, accountID string) ([]repository.APIKey, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var keys []repository.APIKey
	for _, k := range r.byID {
		if k.AccountID == accountID {
			keys = append(keys, *k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.After(keys[j].CreatedAt) })
	return keys, nil
}

func (r *apiKeyRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	k.Active = active
	return nil
}

func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if k, ok := r.byID[id]; ok {
		k.LastUsedAt = &at
	}
	return nil
}

func (r *apiKeyRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
