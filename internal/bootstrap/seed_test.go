package bootstrap

import (
	"context"
	"testing"

	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/internal/security/password"
	"github.com/opsboard/opsboard/internal/store/memory"
)

func TestSeedAdminEmptyStore(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	created, err := SeedAdmin(ctx, store.Accounts(), SeedAdminInput{
		Email:    "  Root@Example.com ",
		Password: "bootstrap-secret",
	})
	if err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on empty store")
	}

	acc, err := store.Accounts().GetByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if acc.Role != repository.RoleAdmin {
		t.Errorf("role = %q, want admin", acc.Role)
	}
	if acc.Status != repository.StatusActive {
		t.Errorf("status = %q, want active", acc.Status)
	}
	// Sin nombre explícito se usa el genérico
	if acc.Name != "Administrator" {
		t.Errorf("name = %q, want Administrator", acc.Name)
	}
	if !password.Verify("bootstrap-secret", acc.PasswordHash) {
		t.Fatal("seeded password does not verify")
	}
}

func TestSeedAdminSkipsNonEmptyStore(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	if _, err := store.Accounts().Create(ctx, repository.CreateAccountInput{
		Email:        "existing@example.com",
		PasswordHash: "x",
		Name:         "Existing",
		Role:         repository.RoleUser,
		Status:       repository.StatusActive,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	created, err := SeedAdmin(ctx, store.Accounts(), SeedAdminInput{
		Email:    "root@example.com",
		Password: "bootstrap-secret",
	})
	if err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if created {
		t.Fatal("expected created=false when accounts exist")
	}
	if _, err := store.Accounts().GetByEmail(ctx, "root@example.com"); !repository.IsNotFound(err) {
		t.Fatalf("admin should not exist, err = %v", err)
	}
}

func TestSeedAdminValidation(t *testing.T) {
	store := memory.New()
	if _, err := SeedAdmin(context.Background(), store.Accounts(), SeedAdminInput{Email: "", Password: "x"}); err == nil {
		t.Fatal("expected error for empty email")
	}
	if _, err := SeedAdmin(context.Background(), store.Accounts(), SeedAdminInput{Email: "a@b.c", Password: ""}); err == nil {
		t.Fatal("expected error for empty password")
	}
}
