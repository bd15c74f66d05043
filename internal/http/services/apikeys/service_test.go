package apikeys

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/domain/repository"
	tokens "github.com/opsboard/opsboard/internal/security/token"
	"github.com/opsboard/opsboard/internal/store/memory"
)

type testEnv struct {
	store *memory.Store
	svc   Service
	alice *repository.Account
	bob   *repository.Account
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()

	mk := func(email string) *repository.Account {
		acc, err := store.Accounts().Create(context.Background(), repository.CreateAccountInput{
			Email:        email,
			PasswordHash: "x",
			Name:         "T",
			Role:         repository.RoleUser,
			Status:       repository.StatusActive,
		})
		if err != nil {
			t.Fatal(err)
		}
		return acc
	}

	return &testEnv{
		store: store,
		svc: NewService(Deps{
			Keys:  store.APIKeys(),
			Audit: audit.NewRecorder(store.Activity()),
		}),
		alice: mk("alice@example.com"),
		bob:   mk("bob@example.com"),
	}
}

func TestCreate_SecretShownOnce(t *testing.T) {
	e := newTestEnv(t)

	key, secret, err := e.svc.Create(context.Background(), e.alice, "ci deploy", "")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if !strings.HasPrefix(secret, tokens.APIKeyPrefix) {
		t.Fatalf("secret = %q", secret)
	}
	if key.SecretHash != tokens.SHA256Hex(secret) {
		t.Fatal("stored hash mismatch")
	}
	if !key.Active {
		t.Fatal("new keys start active")
	}
	if key.Masked == "" || strings.Contains(key.Masked, secret[4:len(secret)-4]) {
		t.Fatalf("masked = %q", key.Masked)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	e := newTestEnv(t)
	if _, _, err := e.svc.Create(context.Background(), e.alice, "   ", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v", err)
	}
}

func TestList_ScopedToAccount(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := e.svc.Create(ctx, e.alice, "a1", ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.svc.Create(ctx, e.alice, "a2", ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.svc.Create(ctx, e.bob, "b1", ""); err != nil {
		t.Fatal(err)
	}

	mine, err := e.svc.List(ctx, e.alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("alice sees %d keys", len(mine))
	}
	for _, k := range mine {
		if k.AccountID != e.alice.ID {
			t.Fatalf("foreign key in listing: %+v", k)
		}
	}
}

func TestSetActive_And_ForeignKeyHidden(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	key, _, err := e.svc.Create(ctx, e.alice, "ci", "")
	if err != nil {
		t.Fatal(err)
	}

	updated, err := e.svc.SetActive(ctx, e.alice, key.ID, false, "")
	if err != nil {
		t.Fatalf("SetActive err: %v", err)
	}
	if updated.Active {
		t.Fatal("key should be disabled")
	}

	// una key ajena se reporta como inexistente, no como prohibida
	if _, err := e.svc.SetActive(ctx, e.bob, key.ID, true, ""); !repository.IsNotFound(err) {
		t.Fatalf("foreign SetActive: err = %v", err)
	}
	if err := e.svc.Delete(ctx, e.bob, key.ID, ""); !repository.IsNotFound(err) {
		t.Fatalf("foreign Delete: err = %v", err)
	}

	// la dueña sí puede borrarla
	if err := e.svc.Delete(ctx, e.alice, key.ID, ""); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := e.store.APIKeys().GetByID(ctx, key.ID); !repository.IsNotFound(err) {
		t.Fatalf("key should be gone: %v", err)
	}
}
