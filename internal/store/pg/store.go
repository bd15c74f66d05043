// Package pg implementa los repositorios del dominio sobre PostgreSQL (pgx).
package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/migrations"
)

// Store agrupa todos los repositorios sobre un único pool.
type Store struct {
	pool *pgxpool.Pool

	accounts   *accountRepo
	tokens     *refreshTokenRepo
	codes      *verificationCodeRepo
	apiKeys    *apiKeyRepo
	signupKeys *signupKeyRepo
	activity   *activityRepo
}

// Config para abrir el pool.
type Config struct {
	DSN             string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// Open crea el pool y verifica conectividad.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return New(pool), nil
}

// New arma un Store sobre un pool existente.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:       pool,
		accounts:   &accountRepo{pool: pool},
		tokens:     &refreshTokenRepo{pool: pool},
		codes:      &verificationCodeRepo{pool: pool},
		apiKeys:    &apiKeyRepo{pool: pool},
		signupKeys: &signupKeyRepo{pool: pool},
		activity:   &activityRepo{pool: pool},
	}
}

// Pool expone el pool subyacente (métricas, tests de integración).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Accounts() repository.AccountRepository                  { return s.accounts }
func (s *Store) RefreshTokens() repository.RefreshTokenRepository        { return s.tokens }
func (s *Store) VerificationCodes() repository.VerificationCodeRepository { return s.codes }
func (s *Store) APIKeys() repository.APIKeyRepository                    { return s.apiKeys }
func (s *Store) SignupKeys() repository.SignupKeyRepository              { return s.signupKeys }
func (s *Store) Activity() repository.ActivityRepository                 { return s.activity }

// Ping verifica la conexión (health checks).
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close cierra el pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate aplica las migraciones embebidas en orden lexicográfico.
// Idempotente: el schema usa IF NOT EXISTS.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.PostgresFS, migrations.PostgresDir)
	if err != nil {
		return fmt.Errorf("pg: read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := fs.ReadFile(migrations.PostgresFS, migrations.PostgresDir+"/"+name)
		if err != nil {
			return fmt.Errorf("pg: read migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("pg: apply migration %s: %w", name, err)
		}
	}
	return nil
}

// isUniqueViolation mapea el error 23505 de postgres a ErrConflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
