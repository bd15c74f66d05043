package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/domain/repository"
	jwtx "github.com/opsboard/opsboard/internal/jwt"
	"github.com/opsboard/opsboard/internal/security/password"
	"github.com/opsboard/opsboard/internal/store/memory"
)

// Parámetros argon2 bajos para tests.
var testHashParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

// fakeMailer registra los envíos en memoria. failSend fuerza el camino de error.
type fakeMailer struct {
	mu       sync.Mutex
	failSend bool

	codes     []sentCode
	approvals []string // destinatarios
}

type sentCode struct {
	To      string
	Code    string
	AppName string
}

func (m *fakeMailer) SendVerificationCode(to, code, appName string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	m.codes = append(m.codes, sentCode{To: to, Code: code, AppName: appName})
	return nil
}

func (m *fakeMailer) SendApprovalNotice(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	m.approvals = append(m.approvals, to)
	return nil
}

func (m *fakeMailer) sentCodes() []sentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentCode(nil), m.codes...)
}

type testEnv struct {
	store  *memory.Store
	mailer *fakeMailer
	deps   Deps
	svc    Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	mailer := &fakeMailer{}
	deps := Deps{
		Accounts:   store.Accounts(),
		Tokens:     store.RefreshTokens(),
		Codes:      store.VerificationCodes(),
		Issuer:     jwtx.NewIssuer("opsboard", []byte("test-secret"), 15*time.Minute),
		Mailer:     mailer,
		Audit:      audit.NewRecorder(store.Activity()),
		HashParams: testHashParams,
		RefreshTTL: 7 * 24 * time.Hour,
		VerifyTTL:  10 * time.Minute,
		AppName:    "OpsBoard",
	}
	return &testEnv{store: store, mailer: mailer, deps: deps, svc: NewServices(deps)}
}

func (e *testEnv) createAccount(t *testing.T, email, pass string, status repository.Status) *repository.Account {
	t.Helper()
	hash, err := password.Hash(testHashParams, pass)
	if err != nil {
		t.Fatal(err)
	}
	acc, err := e.store.Accounts().Create(context.Background(), repository.CreateAccountInput{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         repository.RoleUser,
		Status:       status,
	})
	if err != nil {
		t.Fatal(err)
	}
	return acc
}

func (e *testEnv) lastActivity(t *testing.T) repository.Activity {
	t.Helper()
	events, err := e.store.Activity().List(context.Background(), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 {
		t.Fatal("expected at least one activity event")
	}
	return events[0]
}
