// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	admctrl "github.com/opsboard/opsboard/internal/http/controllers/admin"
	keyctrl "github.com/opsboard/opsboard/internal/http/controllers/apikeys"
	authctrl "github.com/opsboard/opsboard/internal/http/controllers/auth"
	extctrl "github.com/opsboard/opsboard/internal/http/controllers/external"
	healthctrl "github.com/opsboard/opsboard/internal/http/controllers/health"
	httperrors "github.com/opsboard/opsboard/internal/http/errors"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
)

// Deps contiene controllers y middlewares ya construidos.
type Deps struct {
	Auth     *authctrl.Controllers
	Admin    *admctrl.Controllers
	External *extctrl.Controller
	APIKeys  *keyctrl.Controller
	Health   *healthctrl.Controller

	RequireAuth      mw.Middleware
	RequireAdmin     mw.Middleware
	RequireSignupKey mw.Middleware

	// Metrics es el handler de /metrics; nil lo deshabilita.
	Metrics http.Handler
	// Instrument envuelve cada request con las métricas HTTP; nil = no-op.
	Instrument mw.Middleware
}

// New arma el router completo con la cadena base de middlewares.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	if deps.Instrument != nil {
		r.Use(deps.Instrument)
	}
	r.Use(mw.WithLogging())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Operacional ───
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// ─── Auth primaria ───
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", deps.Auth.Login.Login)
		r.Post("/refresh", deps.Auth.Session.Refresh)
		r.Post("/logout", deps.Auth.Session.Logout)
		r.Post("/verify", deps.Auth.Verify.Verify)
		r.Post("/resend-code", deps.Auth.Verify.ResendCode)

		r.Group(func(r chi.Router) {
			r.Use(deps.RequireAuth)
			r.Get("/me", deps.Auth.Account.Me)
			r.Patch("/profile", deps.Auth.Account.UpdateProfile)
			r.Post("/change-password", deps.Auth.Account.ChangePassword)
		})
	})

	// ─── Administración ───
	r.Group(func(r chi.Router) {
		r.Use(deps.RequireAuth, deps.RequireAdmin)

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", deps.Admin.Users.List)
			r.Post("/", deps.Admin.Users.Create)
			r.Patch("/{id}", deps.Admin.Users.Update)
			r.Delete("/{id}", deps.Admin.Users.Delete)
		})

		r.Route("/api/signup-keys", func(r chi.Router) {
			r.Get("/", deps.Admin.SignupKeys.List)
			r.Post("/", deps.Admin.SignupKeys.Create)
			r.Patch("/{id}", deps.Admin.SignupKeys.Update)
			r.Delete("/{id}", deps.Admin.SignupKeys.Delete)
		})

		r.Get("/api/activity", deps.Admin.Activity.List)
	})

	// ─── API keys propias ───
	r.Route("/api/keys", func(r chi.Router) {
		r.Use(deps.RequireAuth)
		r.Get("/", deps.APIKeys.List)
		r.Post("/", deps.APIKeys.Create)
		r.Patch("/{id}", deps.APIKeys.SetActive)
		r.Delete("/{id}", deps.APIKeys.Delete)
	})

	// ─── Superficie externa (X-API-Key) ───
	r.Group(func(r chi.Router) {
		r.Use(deps.RequireSignupKey)
		r.Post("/api/external/register", deps.External.Register)
		r.Post("/api/external/verify", deps.External.Verify)
		r.Post("/api/external/login", deps.External.Login)
		r.Post("/api/public/signup", deps.External.Register)
	})

	return r
}
