package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opsboard/opsboard/internal/domain/repository"
	jwtx "github.com/opsboard/opsboard/internal/jwt"
	tokens "github.com/opsboard/opsboard/internal/security/token"
	"github.com/opsboard/opsboard/internal/store/memory"
)

type authFixture struct {
	store  *memory.Store
	issuer *jwtx.Issuer
	deps   AuthDeps
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := memory.New()
	issuer := jwtx.NewIssuer("opsboard", []byte("test-secret"), 15*time.Minute)
	return &authFixture{
		store:  store,
		issuer: issuer,
		deps: AuthDeps{
			Issuer:   issuer,
			Accounts: store.Accounts(),
			APIKeys:  store.APIKeys(),
		},
	}
}

func (f *authFixture) createAccount(t *testing.T, email string, role repository.Role, status repository.Status) *repository.Account {
	t.Helper()
	acc, err := f.store.Accounts().Create(context.Background(), repository.CreateAccountInput{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test",
		Role:         role,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return acc
}

// serveAuth corre el middleware y captura el principal que llegó al handler.
func serveAuth(deps AuthDeps, authorization string) (*httptest.ResponseRecorder, *Principal) {
	var seen *Principal
	h := RequireAuth(deps)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	f := newAuthFixture(t)

	rec, _ := serveAuth(f.deps, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("expected WWW-Authenticate header")
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	f := newAuthFixture(t)

	rec, _ := serveAuth(f.deps, "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAuth_ValidJWT(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.createAccount(t, "a@example.com", repository.RoleUser, repository.StatusActive)

	tok, _, err := f.issuer.IssueAccess(acc)
	if err != nil {
		t.Fatal(err)
	}

	rec, p := serveAuth(f.deps, "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if p == nil || p.Account == nil || p.Account.ID != acc.ID {
		t.Fatalf("principal = %+v", p)
	}
	if p.Method != AuthMethodBearer {
		t.Fatalf("method = %q", p.Method)
	}
}

func TestRequireAuth_JWTForInactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.createAccount(t, "p@example.com", repository.RoleUser, repository.StatusPending)

	tok, _, err := f.issuer.IssueAccess(acc)
	if err != nil {
		t.Fatal(err)
	}

	// credencial válida pero estado insuficiente -> 403
	rec, _ := serveAuth(f.deps, "Bearer "+tok)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAuth_JWTForMissingAccount(t *testing.T) {
	f := newAuthFixture(t)
	ghost := &repository.Account{ID: "never-persisted", Email: "g@example.com", Role: repository.RoleUser}

	tok, _, err := f.issuer.IssueAccess(ghost)
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := serveAuth(f.deps, "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAuth_APIKey(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.createAccount(t, "k@example.com", repository.RoleUser, repository.StatusActive)

	secret, err := tokens.GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	key, err := f.store.APIKeys().Create(context.Background(), repository.CreateAPIKeyInput{
		AccountID:  acc.ID,
		Name:       "ci",
		SecretHash: tokens.SHA256Hex(secret),
		Masked:     tokens.Mask(secret),
	})
	if err != nil {
		t.Fatal(err)
	}

	rec, p := serveAuth(f.deps, "Bearer "+secret)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if p == nil || p.Method != AuthMethodAPIKey || p.APIKey == nil || p.APIKey.ID != key.ID {
		t.Fatalf("principal = %+v", p)
	}

	// el uso deja marca de last-used
	stored, err := f.store.APIKeys().GetByID(context.Background(), key.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.LastUsedAt == nil {
		t.Fatal("LastUsedAt should be set after use")
	}
}

func TestRequireAuth_DisabledAPIKey(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.createAccount(t, "d@example.com", repository.RoleUser, repository.StatusActive)

	secret, _ := tokens.GenerateAPIKey()
	key, err := f.store.APIKeys().Create(context.Background(), repository.CreateAPIKeyInput{
		AccountID:  acc.ID,
		Name:       "old",
		SecretHash: tokens.SHA256Hex(secret),
		Masked:     tokens.Mask(secret),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.store.APIKeys().SetActive(context.Background(), key.ID, false); err != nil {
		t.Fatal(err)
	}

	rec, _ := serveAuth(f.deps, "Bearer "+secret)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAuth_APIKeyWithBlockedOwner(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.createAccount(t, "b@example.com", repository.RoleUser, repository.StatusBlocked)

	secret, _ := tokens.GenerateAPIKey()
	if _, err := f.store.APIKeys().Create(context.Background(), repository.CreateAPIKeyInput{
		AccountID:  acc.ID,
		Name:       "orphan",
		SecretHash: tokens.SHA256Hex(secret),
		Masked:     tokens.Mask(secret),
	}); err != nil {
		t.Fatal(err)
	}

	// dueño bloqueado: la key deja de servir, y con 401 (no filtra el motivo)
	rec, _ := serveAuth(f.deps, "Bearer "+secret)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
