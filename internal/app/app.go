// Package app cablea todas las dependencias del servicio a partir de la
// configuración: store, limiter, email, services, controllers y router.
package app

import (
	"context"
	"fmt"

	rdb "github.com/redis/go-redis/v9"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/config"
	"github.com/opsboard/opsboard/internal/email"
	httpx "github.com/opsboard/opsboard/internal/http"
	admctrl "github.com/opsboard/opsboard/internal/http/controllers/admin"
	keyctrl "github.com/opsboard/opsboard/internal/http/controllers/apikeys"
	authctrl "github.com/opsboard/opsboard/internal/http/controllers/auth"
	extctrl "github.com/opsboard/opsboard/internal/http/controllers/external"
	healthctrl "github.com/opsboard/opsboard/internal/http/controllers/health"
	mw "github.com/opsboard/opsboard/internal/http/middlewares"
	"github.com/opsboard/opsboard/internal/http/router"
	admsvc "github.com/opsboard/opsboard/internal/http/services/admin"
	keysvc "github.com/opsboard/opsboard/internal/http/services/apikeys"
	authsvc "github.com/opsboard/opsboard/internal/http/services/auth"
	extsvc "github.com/opsboard/opsboard/internal/http/services/external"
	jwtx "github.com/opsboard/opsboard/internal/jwt"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/rate"
	"github.com/opsboard/opsboard/internal/security/password"
	"github.com/opsboard/opsboard/internal/store/pg"

	nethttp "net/http"
)

// serviceName aparece en emails y logs.
const serviceName = "OpsBoard"

// App agrupa las piezas construidas, listas para servir.
type App struct {
	Config  *config.Config
	Store   *pg.Store
	Handler nethttp.Handler

	redis *rdb.Client
}

// New construye la aplicación completa. El caller es dueño del ciclo de
// vida: llamar Close al terminar.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := pg.Open(ctx, pg.Config{
		DSN:      cfg.Storage.DSN,
		MaxConns: cfg.Storage.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}

	issuer := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.AccessTTL())

	// Email: SMTP real si hay host configurado, log sender en dev.
	var sender email.Sender
	if cfg.SMTP.Host != "" {
		s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		s.TLSMode = cfg.SMTP.TLS
		s.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		sender = s
	} else {
		logger.L().Warn("smtp not configured, emails go to the log")
		sender = email.NewLogSender()
	}
	mailer := email.NewService(sender, serviceName)

	recorder := audit.NewRecorder(store.Activity())

	// Rate limiter: Redis si está configurado, memoria local si no.
	var limiter rate.Limiter
	var redisClient *rdb.Client
	if cfg.Rate.Enabled {
		if cfg.Rate.Redis.Addr != "" {
			redisClient = rdb.NewClient(&rdb.Options{
				Addr: cfg.Rate.Redis.Addr,
				DB:   cfg.Rate.Redis.DB,
			})
			limiter = rate.NewRedisLimiter(redisClient, cfg.Rate.Redis.Prefix)
		} else {
			limiter = rate.NewMemoryLimiter()
		}
	}

	hashParams := password.Default

	authServices := authsvc.NewServices(authsvc.Deps{
		Accounts:   store.Accounts(),
		Tokens:     store.RefreshTokens(),
		Codes:      store.VerificationCodes(),
		Issuer:     issuer,
		Mailer:     mailer,
		Audit:      recorder,
		HashParams: hashParams,
		RefreshTTL: cfg.RefreshTTL(),
		VerifyTTL:  cfg.VerifyTTL(),
		AppName:    serviceName,
	})

	adminServices := admsvc.NewServices(admsvc.Deps{
		Accounts:   store.Accounts(),
		SignupKeys: store.SignupKeys(),
		Activity:   store.Activity(),
		Mailer:     mailer,
		Audit:      recorder,
		HashParams: hashParams,
	})

	externalService := extsvc.NewService(extsvc.Deps{
		Accounts:   store.Accounts(),
		Codes:      store.VerificationCodes(),
		Auth:       authServices,
		Mailer:     mailer,
		Audit:      recorder,
		HashParams: hashParams,
		VerifyTTL:  cfg.VerifyTTL(),
	})

	apiKeyService := keysvc.NewService(keysvc.Deps{
		Keys:  store.APIKeys(),
		Audit: recorder,
	})

	cookie := authctrl.CookieConfig{
		Name:   cfg.Auth.Cookie.Name,
		Domain: cfg.Auth.Cookie.Domain,
		Secure: cfg.Auth.Cookie.Secure,
		TTL:    cfg.RefreshTTL(),
	}

	health := healthctrl.NewController(map[string]healthctrl.Pinger{
		"postgres": store,
	})

	var metricsHandler nethttp.Handler
	var instrument mw.Middleware
	if cfg.Metrics.Enabled {
		h, merr := httpx.RegisterMetrics(httpx.MetricsConfig{
			Pool: store.Pool,
		})
		if merr != nil {
			store.Close()
			return nil, fmt.Errorf("app: register metrics: %w", merr)
		}
		metricsHandler = h
		instrument = httpx.WithMetrics
	}

	handler := router.New(router.Deps{
		Auth:     authctrl.NewControllers(authServices, cookie),
		Admin:    admctrl.NewControllers(adminServices),
		External: extctrl.NewController(externalService),
		APIKeys:  keyctrl.NewController(apiKeyService),
		Health:   health,

		RequireAuth: mw.RequireAuth(mw.AuthDeps{
			Issuer:   issuer,
			Accounts: store.Accounts(),
			APIKeys:  store.APIKeys(),
		}),
		RequireAdmin: mw.RequireAdmin(),
		RequireSignupKey: mw.RequireSignupKey(mw.SignupKeyDeps{
			SignupKeys:   store.SignupKeys(),
			Accounts:     store.Accounts(),
			Limiter:      limiter,
			DefaultLimit: cfg.Rate.External.Limit,
			Window:       cfg.ExternalRateWindow(),
		}),

		Metrics:    metricsHandler,
		Instrument: instrument,
	})

	return &App{
		Config:  cfg,
		Store:   store,
		Handler: handler,
		redis:   redisClient,
	}, nil
}

// Close libera pool y conexiones.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.Store.Close()
}
