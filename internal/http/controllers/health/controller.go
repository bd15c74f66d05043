// Package health contiene los endpoints de liveness y readiness.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/opsboard/opsboard/internal/observability/logger"
)

// Pinger verifica la disponibilidad de un colaborador (DB, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller expone /healthz y /readyz.
type Controller struct {
	checks map[string]Pinger
}

// NewController crea el controller de health con sus checks de readiness.
func NewController(checks map[string]Pinger) *Controller {
	return &Controller{checks: checks}
}

// Healthz maneja GET /healthz. Liveness: el proceso responde.
func (c *Controller) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz. Readiness: los colaboradores responden.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(c.checks))
	for name, p := range c.checks {
		if err := p.Ping(ctx); err != nil {
			logger.From(ctx).Warn("readiness check failed",
				logger.Component(name),
				logger.Err(err),
			)
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(results)
}
