package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type refreshTokenRepo struct {
	store  *Store
	byHash map[string]*repository.RefreshToken
}

func (r *refreshTokenRepo) Create(ctx context.Context, input repository.CreateRefreshTokenInput) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t := &repository.RefreshToken{
		ID:        uuid.NewString(),
		AccountID: input.AccountID,
		TokenHash: input.TokenHash,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.byHash[t.TokenHash] = t
	return t.ID, nil
}

func (r *refreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*repository.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.byHash[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *refreshTokenRepo) Delete(ctx context.Context, tokenHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.byHash, tokenHash)
	return nil
}

func (r *refreshTokenRepo) DeleteAllByAccount(ctx context.Context, accountID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := 0
	for hash, t := range r.byHash {
		if t.AccountID == accountID {
			delete(r.byHash, hash)
			n++
		}
	}
	return n, nil
}
