package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

func serveAdmin(p *Principal) *httptest.ResponseRecorder {
	h := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if p != nil {
		req = req.WithContext(WithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	admin := &Principal{
		Account: &repository.Account{ID: "1", Role: repository.RoleAdmin, Status: repository.StatusActive},
		Method:  AuthMethodBearer,
	}
	user := &Principal{
		Account: &repository.Account{ID: "2", Role: repository.RoleUser, Status: repository.StatusActive},
		Method:  AuthMethodBearer,
	}

	if rec := serveAdmin(nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no principal: status = %d", rec.Code)
	}
	if rec := serveAdmin(user); rec.Code != http.StatusForbidden {
		t.Fatalf("plain user: status = %d", rec.Code)
	}
	if rec := serveAdmin(admin); rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d", rec.Code)
	}
}
