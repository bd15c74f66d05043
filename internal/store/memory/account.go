package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

type accountRepo struct {
	store *Store
	byID  map[string]*repository.Account
}

func copyAccount(a *repository.Account) *repository.Account {
	cp := *a
	return &cp
}

func (r *accountRepo) Create(ctx context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.byID {
		if a.DeletedAt == nil && a.Email == input.Email {
			return nil, repository.ErrConflict
		}
	}

	a := &repository.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Role:         input.Role,
		Status:       input.Status,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[a.ID] = a
	return copyAccount(a), nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	return copyAccount(a), nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*repository.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.byID {
		if a.DeletedAt == nil && a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *accountRepo) List(ctx context.Context, limit, offset int) ([]repository.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var all []repository.Account
	for _, a := range r.byID {
		if a.DeletedAt == nil {
			all = append(all, *a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *accountRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n := 0
	for _, a := range r.byID {
		if a.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (r *accountRepo) Update(ctx context.Context, id string, input repository.UpdateAccountInput) (*repository.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	if input.Email != nil && *input.Email != a.Email {
		for _, other := range r.byID {
			if other.ID != id && other.DeletedAt == nil && other.Email == *input.Email {
				return nil, repository.ErrConflict
			}
		}
		a.Email = *input.Email
	}
	if input.Name != nil {
		a.Name = *input.Name
	}
	if input.Role != nil {
		a.Role = *input.Role
	}
	if input.Status != nil {
		a.Status = *input.Status
	}
	return copyAccount(a), nil
}

func (r *accountRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.DeletedAt != nil {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (r *accountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if a, ok := r.byID[id]; ok && a.DeletedAt == nil {
		a.LastLoginAt = &at
	}
	return nil
}

func (r *accountRepo) SoftDelete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	a.DeletedAt = &now
	return nil
}
