package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

func TestLogin_Success(t *testing.T) {
	e := newTestEnv(t)
	acc := e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)
	ctx := context.Background()

	res, err := e.svc.Login.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter2hunter2"}, "203.0.113.1")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if res.Account.ID != acc.ID {
		t.Fatalf("account = %+v", res.Account)
	}

	// el refresh queda persistido por hash, nunca en claro
	rt, err := e.store.RefreshTokens().GetByHash(ctx, tokens.SHA256Hex(res.RefreshToken))
	if err != nil {
		t.Fatalf("refresh token not persisted: %v", err)
	}
	if rt.AccountID != acc.ID {
		t.Fatalf("refresh owner = %q", rt.AccountID)
	}

	// last login queda marcado
	stored, _ := e.store.Accounts().GetByID(ctx, acc.ID)
	if stored.LastLoginAt == nil {
		t.Fatal("LastLoginAt should be set")
	}

	// y el login queda auditado con la IP del cliente
	ev := e.lastActivity(t)
	if ev.Action != "auth.login" || ev.ActorID != acc.ID || ev.IP != "203.0.113.1" {
		t.Fatalf("activity = %+v", ev)
	}
}

func TestLogin_EmailIsNormalized(t *testing.T) {
	e := newTestEnv(t)
	e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)

	// mayúsculas y espacios en el input no importan
	_, err := e.svc.Login.Login(context.Background(),
		dto.LoginRequest{Email: "  ANA@Example.COM ", Password: "hunter2hunter2"}, "")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEnv(t)
	e.createAccount(t, "ana@example.com", "hunter2hunter2", repository.StatusActive)

	_, err := e.svc.Login.Login(context.Background(),
		dto.LoginRequest{Email: "ana@example.com", Password: "wrong"}, "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	e := newTestEnv(t)

	// cuenta inexistente y password mala devuelven el mismo error
	_, err := e.svc.Login.Login(context.Background(),
		dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"}, "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	e := newTestEnv(t)

	for _, in := range []dto.LoginRequest{
		{},
		{Email: "a@example.com"},
		{Password: "p"},
	} {
		if _, err := e.svc.Login.Login(context.Background(), in, ""); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("input %+v: err = %v", in, err)
		}
	}
}

func TestLogin_StatusGating(t *testing.T) {
	e := newTestEnv(t)
	e.createAccount(t, "pending@example.com", "hunter2hunter2", repository.StatusPending)
	e.createAccount(t, "blocked@example.com", "hunter2hunter2", repository.StatusBlocked)

	_, err := e.svc.Login.Login(context.Background(),
		dto.LoginRequest{Email: "pending@example.com", Password: "hunter2hunter2"}, "")
	if !errors.Is(err, ErrAccountPending) {
		t.Fatalf("pending: err = %v", err)
	}

	_, err = e.svc.Login.Login(context.Background(),
		dto.LoginRequest{Email: "blocked@example.com", Password: "hunter2hunter2"}, "")
	if !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("blocked: err = %v", err)
	}
}
