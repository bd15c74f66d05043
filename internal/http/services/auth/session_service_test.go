package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

func loginFor(t *testing.T, e *testEnv, email, pass string) *LoginResult {
	t.Helper()
	res, err := e.svc.Login.Login(context.Background(), dto.LoginRequest{Email: email, Password: pass}, "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return res
}

func TestRefresh_Success(t *testing.T) {
	e := newTestEnv(t)
	e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	first := loginFor(t, e, "ana@example.com", "hunter2hunter2")

	res, err := e.svc.Session.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh err: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("expected a new access token")
	}
	// sin rotación: el mismo refresh sigue siendo utilizable
	if res.RefreshToken != first.RefreshToken {
		t.Fatal("refresh token must not rotate")
	}
	if _, err := e.svc.Session.Refresh(context.Background(), first.RefreshToken); err != nil {
		t.Fatalf("second refresh should also work: %v", err)
	}
}

func TestRefresh_UnknownOrEmptyToken(t *testing.T) {
	e := newTestEnv(t)

	if _, err := e.svc.Session.Refresh(context.Background(), ""); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("empty: err = %v", err)
	}
	if _, err := e.svc.Session.Refresh(context.Background(), "deadbeef"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("unknown: err = %v", err)
	}
}

func TestRefresh_ExpiredTokenIsDeleted(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	ctx := context.Background()

	raw, _ := tokens.GenerateRefreshToken()
	hash := tokens.SHA256Hex(raw)
	if _, err := e.store.RefreshTokens().Create(ctx, repository.CreateRefreshTokenInput{
		AccountID: acc.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := e.svc.Session.Refresh(ctx, raw); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("err = %v", err)
	}
	// limpieza lazy: el token vencido se borró al presentarse
	if _, err := e.store.RefreshTokens().GetByHash(ctx, hash); !repository.IsNotFound(err) {
		t.Fatalf("expired token should be gone, got %v", err)
	}
}

func TestRefresh_BlockedAccount(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	first := loginFor(t, e, "ana@example.com", "hunter2hunter2")

	// bloquear la cuenta después del login
	blocked := repository.StatusBlocked
	if _, err := e.store.Accounts().Update(context.Background(), acc.ID, repository.UpdateAccountInput{Status: &blocked}); err != nil {
		t.Fatal(err)
	}

	if _, err := e.svc.Session.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	e := newTestEnv(t)
	e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	first := loginFor(t, e, "ana@example.com", "hunter2hunter2")
	ctx := context.Background()

	if err := e.svc.Session.Logout(ctx, first.RefreshToken, "203.0.113.1"); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if _, err := e.svc.Session.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("refresh after logout should fail: %v", err)
	}

	// repetir logout con el mismo token no es error
	if err := e.svc.Session.Logout(ctx, first.RefreshToken, ""); err != nil {
		t.Fatalf("second Logout err: %v", err)
	}
	// y un logout sin token tampoco
	if err := e.svc.Session.Logout(ctx, "", ""); err != nil {
		t.Fatalf("empty Logout err: %v", err)
	}
}
