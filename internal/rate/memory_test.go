package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_BlocksOverLimit(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	// ventana larga para que no rote a mitad del test
	const limit = 3
	window := time.Hour

	for i := 1; i <= limit; i++ {
		res, err := l.AllowWithLimit(ctx, "signup:key-1", limit, window)
		if err != nil {
			t.Fatalf("AllowWithLimit err: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i)
		}
		if res.Remaining != int64(limit-i) {
			t.Fatalf("hit %d: remaining = %d, want %d", i, res.Remaining, limit-i)
		}
	}

	res, err := l.AllowWithLimit(ctx, "signup:key-1", limit, window)
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatalf("hit %d should be blocked", limit+1)
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", res.Remaining)
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter should be positive when blocked, got %v", res.RetryAfter)
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	if res, _ := l.AllowWithLimit(ctx, "signup:a", 1, time.Hour); !res.Allowed {
		t.Fatal("first hit on key a should pass")
	}
	if res, _ := l.AllowWithLimit(ctx, "signup:a", 1, time.Hour); res.Allowed {
		t.Fatal("second hit on key a should be blocked")
	}
	// otra key no comparte contador
	if res, _ := l.AllowWithLimit(ctx, "signup:b", 1, time.Hour); !res.Allowed {
		t.Fatal("first hit on key b should pass")
	}
}
