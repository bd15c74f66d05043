package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	"github.com/opsboard/opsboard/internal/security/password"
)

func strptr(s string) *string { return &s }

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "oldpassword1", repository.StatusActive)
	ctx := context.Background()

	// dos sesiones abiertas (dos dispositivos)
	s1 := loginFor(t, e, "ana@example.com", "oldpassword1")
	s2 := loginFor(t, e, "ana@example.com", "oldpassword1")

	err := e.svc.Account.ChangePassword(ctx, acc, dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword1",
		NewPassword:     "newpassword2",
	}, "")
	if err != nil {
		t.Fatalf("ChangePassword err: %v", err)
	}

	// ambas sesiones quedaron revocadas
	if _, err := e.svc.Session.Refresh(ctx, s1.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("session 1 should be revoked: %v", err)
	}
	if _, err := e.svc.Session.Refresh(ctx, s2.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("session 2 should be revoked: %v", err)
	}

	// la password nueva verifica, la vieja no
	stored, _ := e.store.Accounts().GetByID(ctx, acc.ID)
	if !password.Verify("newpassword2", stored.PasswordHash) {
		t.Fatal("new password should verify")
	}
	if password.Verify("oldpassword1", stored.PasswordHash) {
		t.Fatal("old password should no longer verify")
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "oldpassword1", repository.StatusActive)

	err := e.svc.Account.ChangePassword(context.Background(), acc, dto.ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "newpassword2",
	}, "")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v", err)
	}
}

func TestChangePassword_RejectsShortPassword(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "oldpassword1", repository.StatusActive)

	err := e.svc.Account.ChangePassword(context.Background(), acc, dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword1",
		NewPassword:     "short",
	}, "")
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	ctx := context.Background()

	updated, err := e.svc.Account.UpdateProfile(ctx, acc, dto.UpdateProfileRequest{
		Name:  strptr("Ana María"),
		Email: strptr("  Ana.Maria@Example.com "),
	})
	if err != nil {
		t.Fatalf("UpdateProfile err: %v", err)
	}
	if updated.Name != "Ana María" {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.Email != "ana.maria@example.com" {
		t.Fatalf("email = %q (should be normalized)", updated.Email)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	ctx := context.Background()

	// sin campos: nada que actualizar
	if _, err := e.svc.Account.UpdateProfile(ctx, acc, dto.UpdateProfileRequest{}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("empty: err = %v", err)
	}
	// nombre vacío explícito
	if _, err := e.svc.Account.UpdateProfile(ctx, acc, dto.UpdateProfileRequest{Name: strptr("  ")}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("blank name: err = %v", err)
	}
	// email sin @
	if _, err := e.svc.Account.UpdateProfile(ctx, acc, dto.UpdateProfileRequest{Email: strptr("not-an-email")}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("bad email: err = %v", err)
	}
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	e.createAccount(t, "other@example.com", "hunter2hunter2", repository.StatusActive)

	_, err := e.svc.Account.UpdateProfile(context.Background(), acc, dto.UpdateProfileRequest{
		Email: strptr("other@example.com"),
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v", err)
	}
}
