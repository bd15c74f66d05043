package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/opsboard/opsboard/internal/app"
	"github.com/opsboard/opsboard/internal/bootstrap"
	"github.com/opsboard/opsboard/internal/config"
	httpx "github.com/opsboard/opsboard/internal/http"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/store/pg"
)

func main() {
	// .env es opcional; las env vars del sistema siguen aplicando
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:          "opsboard",
		Short:        "OpsBoard: panel de control con auth, API keys y registro externo",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("OPSBOARD_CONFIG", ""), "ruta al config YAML (env OPSBOARD_CONFIG)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de schema pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runMigrate(cfg)
		},
	}

	var seedEmail, seedPassword, seedName string
	seedCmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea la cuenta admin inicial si el sistema está vacío",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runSeedAdmin(cfg, bootstrap.SeedAdminInput{
				Email:    seedEmail,
				Password: seedPassword,
				Name:     seedName,
			})
		},
	}
	seedCmd.Flags().StringVar(&seedEmail, "email", envOr("SEED_ADMIN_EMAIL", ""), "email del admin (env SEED_ADMIN_EMAIL)")
	seedCmd.Flags().StringVar(&seedPassword, "password", envOr("SEED_ADMIN_PASSWORD", ""), "password del admin (env SEED_ADMIN_PASSWORD)")
	seedCmd.Flags().StringVar(&seedName, "name", envOr("SEED_ADMIN_NAME", ""), "nombre del admin")

	root.AddCommand(serveCmd, migrateCmd, seedCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runServe(cfg *config.Config) error {
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "opsboard",
	})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Migraciones al arranque: idempotentes, en orden léxico
	if err := a.Store.Migrate(ctx); err != nil {
		return err
	}

	shutdownTimeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		shutdownTimeout = 10 * time.Second
	}

	srv := &httpx.Server{
		Addr:            cfg.Server.Addr,
		Handler:         a.Handler,
		ShutdownTimeout: shutdownTimeout,
	}
	return srv.Run(ctx)
}

func runMigrate(cfg *config.Config) error {
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := pg.Open(ctx, pg.Config{
		DSN:      cfg.Storage.DSN,
		MaxConns: cfg.Storage.Postgres.MaxConns,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	logger.L().Info("migrations applied")
	return nil
}

func runSeedAdmin(cfg *config.Config, in bootstrap.SeedAdminInput) error {
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pg.Open(ctx, pg.Config{
		DSN:      cfg.Storage.DSN,
		MaxConns: cfg.Storage.Postgres.MaxConns,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	created, err := bootstrap.SeedAdmin(ctx, store.Accounts(), in)
	if err != nil {
		return err
	}
	if !created {
		fmt.Println("seed skipped: accounts already exist")
		return nil
	}
	fmt.Println("admin account created")
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
