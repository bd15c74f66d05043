package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/internal/rate"
	tokens "github.com/opsboard/opsboard/internal/security/token"
	"github.com/opsboard/opsboard/internal/store/memory"
)

type signupFixture struct {
	store  *memory.Store
	secret string
	key    *repository.SignupKey
}

func newSignupFixture(t *testing.T, rateLimit int) *signupFixture {
	t.Helper()
	store := memory.New()

	owner, err := store.Accounts().Create(context.Background(), repository.CreateAccountInput{
		Email:        "owner@example.com",
		PasswordHash: "x",
		Name:         "Owner",
		Role:         repository.RoleAdmin,
		Status:       repository.StatusActive,
	})
	if err != nil {
		t.Fatal(err)
	}

	secret, err := tokens.GenerateSignupKey()
	if err != nil {
		t.Fatal(err)
	}
	key, err := store.SignupKeys().Create(context.Background(), repository.CreateSignupKeyInput{
		AccountID:  owner.ID,
		AppName:    "Acme CRM",
		SecretHash: tokens.SHA256Hex(secret),
		Masked:     tokens.Mask(secret),
		RateLimit:  rateLimit,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &signupFixture{store: store, secret: secret, key: key}
}

func (f *signupFixture) serve(deps SignupKeyDeps, apiKey string) (*httptest.ResponseRecorder, *repository.SignupKey) {
	var seen *repository.SignupKey
	h := RequireSignupKey(deps)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSignupKey(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/external/register", nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireSignupKey_MissingHeader(t *testing.T) {
	f := newSignupFixture(t, 0)
	deps := SignupKeyDeps{SignupKeys: f.store.SignupKeys(), Accounts: f.store.Accounts()}

	rec, _ := f.serve(deps, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireSignupKey_UnknownKey(t *testing.T) {
	f := newSignupFixture(t, 0)
	deps := SignupKeyDeps{SignupKeys: f.store.SignupKeys(), Accounts: f.store.Accounts()}

	rec, _ := f.serve(deps, "osk_definitely_not_registered")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireSignupKey_ValidKey(t *testing.T) {
	f := newSignupFixture(t, 0)
	deps := SignupKeyDeps{SignupKeys: f.store.SignupKeys(), Accounts: f.store.Accounts()}

	rec, seen := f.serve(deps, f.secret)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if seen == nil || seen.ID != f.key.ID {
		t.Fatalf("signup key in context = %+v", seen)
	}

	stored, err := f.store.SignupKeys().GetByID(context.Background(), f.key.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.LastUsedAt == nil {
		t.Fatal("LastUsedAt should be set after use")
	}
}

func TestRequireSignupKey_DisabledKey(t *testing.T) {
	f := newSignupFixture(t, 0)
	off := false
	if _, err := f.store.SignupKeys().Update(context.Background(), f.key.ID, repository.UpdateSignupKeyInput{Active: &off}); err != nil {
		t.Fatal(err)
	}
	deps := SignupKeyDeps{SignupKeys: f.store.SignupKeys(), Accounts: f.store.Accounts()}

	rec, _ := f.serve(deps, f.secret)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireSignupKey_PerKeyRateLimit(t *testing.T) {
	// la key trae su propio límite de 2; el default más alto no aplica
	f := newSignupFixture(t, 2)
	deps := SignupKeyDeps{
		SignupKeys:   f.store.SignupKeys(),
		Accounts:     f.store.Accounts(),
		Limiter:      rate.NewMemoryLimiter(),
		DefaultLimit: 100,
		Window:       time.Hour,
	}

	for i := 1; i <= 2; i++ {
		rec, _ := f.serve(deps, f.secret)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "2" {
			t.Fatalf("request %d: X-RateLimit-Limit = %q", i, rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	rec, _ := f.serve(deps, f.secret)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on 429")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("X-RateLimit-Remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

// brokenLimiter simula un limiter caído.
type brokenLimiter struct{}

func (brokenLimiter) AllowWithLimit(context.Context, string, int, time.Duration) (rate.Result, error) {
	return rate.Result{}, fmt.Errorf("redis down")
}

func TestRequireSignupKey_LimiterFailureAllows(t *testing.T) {
	f := newSignupFixture(t, 1)
	deps := SignupKeyDeps{
		SignupKeys:   f.store.SignupKeys(),
		Accounts:     f.store.Accounts(),
		Limiter:      brokenLimiter{},
		DefaultLimit: 1,
		Window:       time.Minute,
	}

	// fail-open: sin limiter no se rechaza tráfico legítimo
	rec, _ := f.serve(deps, f.secret)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when limiter is down", rec.Code)
	}
}
