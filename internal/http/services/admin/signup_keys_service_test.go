package admin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/admin"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

func TestSignupKeysCreate_SecretShownOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	key, secret, err := e.svc.SignupKeys.Create(ctx, e.actor, dto.CreateSignupKeyRequest{
		AppName:     "Acme CRM",
		AutoApprove: true,
		RateLimit:   10,
	}, "")
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	if !strings.HasPrefix(secret, tokens.SignupKeyPrefix) {
		t.Fatalf("secret = %q", secret)
	}
	// lo persistido es el hash, nunca el secreto
	if key.SecretHash != tokens.SHA256Hex(secret) {
		t.Fatal("stored hash mismatch")
	}
	if strings.Contains(key.Masked, secret[len(tokens.SignupKeyPrefix):len(secret)-4]) {
		t.Fatalf("masked form leaks the secret: %q", key.Masked)
	}
	if !key.AutoApprove || key.RateLimit != 10 || key.AccountID != e.actor.ID {
		t.Fatalf("key = %+v", key)
	}

	// la key es resolvible por hash (camino del middleware)
	if _, err := e.store.SignupKeys().GetBySecretHash(ctx, tokens.SHA256Hex(secret)); err != nil {
		t.Fatalf("lookup by hash: %v", err)
	}
}

func TestSignupKeysCreate_Validation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := e.svc.SignupKeys.Create(ctx, e.actor, dto.CreateSignupKeyRequest{AppName: "  "}, ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("blank app: err = %v", err)
	}
	if _, _, err := e.svc.SignupKeys.Create(ctx, e.actor, dto.CreateSignupKeyRequest{AppName: "X", RateLimit: -1}, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative limit: err = %v", err)
	}
}

func TestSignupKeysUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	key, _, err := e.svc.SignupKeys.Create(ctx, e.actor, dto.CreateSignupKeyRequest{AppName: "Acme CRM"}, "")
	if err != nil {
		t.Fatal(err)
	}

	off := false
	limit := 25
	updated, err := e.svc.SignupKeys.Update(ctx, e.actor, key.ID, dto.UpdateSignupKeyRequest{
		Active:    &off,
		RateLimit: &limit,
	}, "")
	if err != nil {
		t.Fatalf("Update err: %v", err)
	}
	if updated.Active || updated.RateLimit != 25 {
		t.Fatalf("updated = %+v", updated)
	}
	// los campos no enviados no cambian
	if updated.AppName != "Acme CRM" {
		t.Fatalf("app name changed: %q", updated.AppName)
	}

	if _, err := e.svc.SignupKeys.Update(ctx, e.actor, key.ID, dto.UpdateSignupKeyRequest{}, ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("empty update: err = %v", err)
	}
}

func TestSignupKeysDelete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	key, _, err := e.svc.SignupKeys.Create(ctx, e.actor, dto.CreateSignupKeyRequest{AppName: "Acme CRM"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.svc.SignupKeys.Delete(ctx, e.actor, key.ID, ""); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if err := e.svc.SignupKeys.Delete(ctx, e.actor, key.ID, ""); !repository.IsNotFound(err) {
		t.Fatalf("second delete: err = %v", err)
	}
}

func TestActivityList_RecordsAdminActions(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := e.svc.SignupKeys.Create(ctx, e.actor, dto.CreateSignupKeyRequest{AppName: "Acme CRM"}, "198.51.100.4"); err != nil {
		t.Fatal(err)
	}

	events, err := e.svc.Activity.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected activity entries")
	}
	ev := events[0]
	if ev.Action != "admin.signup_key.create" || ev.ActorID != e.actor.ID || ev.IP != "198.51.100.4" {
		t.Fatalf("event = %+v", ev)
	}
}
