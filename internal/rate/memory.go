package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es el fallback cuando no hay Redis configurado: mismo
// algoritmo fixed-window sobre go-cache, válido para un solo proceso.
type MemoryLimiter struct {
	mu sync.Mutex
	c  *gocache.Cache
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{c: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (l *MemoryLimiter) AllowWithLimit(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(window)
	cacheKey := fmt.Sprintf("%s:%d", key, winStart.Unix())

	l.mu.Lock()
	defer l.mu.Unlock()

	var hits int64 = 1
	if v, ok := l.c.Get(cacheKey); ok {
		hits = v.(int64) + 1
	}
	l.c.Set(cacheKey, hits, window)

	max := int64(limit)
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   winStart.Add(window).Sub(now),
	}
	if !res.Allowed {
		res.RetryAfter = res.WindowTTL
	}
	return res, nil
}
