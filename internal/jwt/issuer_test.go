package jwt

import (
	"testing"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

func testAccount() *repository.Account {
	return &repository.Account{
		ID:     "acc-1",
		Email:  "ops@example.com",
		Role:   repository.RoleAdmin,
		Status: repository.StatusActive,
	}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	iss := NewIssuer("opsboard", []byte("test-secret"), 15*time.Minute)

	tok, exp, err := iss.IssueAccess(testAccount())
	if err != nil {
		t.Fatalf("IssueAccess err: %v", err)
	}
	if time.Until(exp) < 14*time.Minute {
		t.Fatalf("expiry too soon: %v", exp)
	}

	claims, err := iss.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess err: %v", err)
	}
	if claims.Subject != "acc-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if claims.Email != "ops@example.com" || claims.Role != repository.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Issuer != "opsboard" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestParseAccess_WrongSecret(t *testing.T) {
	a := NewIssuer("opsboard", []byte("secret-a"), time.Minute)
	b := NewIssuer("opsboard", []byte("secret-b"), time.Minute)

	tok, _, err := a.IssueAccess(testAccount())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.ParseAccess(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAccess_WrongIssuer(t *testing.T) {
	a := NewIssuer("opsboard", []byte("shared"), time.Minute)
	b := NewIssuer("otherapp", []byte("shared"), time.Minute)

	tok, _, err := a.IssueAccess(testAccount())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.ParseAccess(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAccess_Garbage(t *testing.T) {
	iss := NewIssuer("opsboard", []byte("secret"), time.Minute)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := iss.ParseAccess(tok); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestParseAccess_ExpiryBoundary(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	clock := base
	iss := NewIssuer("opsboard", []byte("secret"), 15*time.Minute).
		WithTimeFunc(func() time.Time { return clock })

	tok, exp, err := iss.IssueAccess(testAccount())
	if err != nil {
		t.Fatal(err)
	}
	if !exp.Equal(base.Add(15 * time.Minute)) {
		t.Fatalf("exp = %v", exp)
	}

	// un segundo antes de expirar: válido
	clock = exp.Add(-time.Second)
	if _, err := iss.ParseAccess(tok); err != nil {
		t.Fatalf("token should still be valid just before expiry: %v", err)
	}

	// un segundo después: inválido
	clock = exp.Add(time.Second)
	if _, err := iss.ParseAccess(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}
