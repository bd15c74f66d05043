// Package memory implementa los repositorios del dominio sobre maps en
// memoria. Se usa en tests y para correr el server sin Postgres.
package memory

import (
	"context"
	"sync"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

// Store agrupa los repositorios en memoria. Comparten un único mutex:
// el volumen esperado no justifica locking más fino.
type Store struct {
	mu sync.Mutex

	accounts   *accountRepo
	tokens     *refreshTokenRepo
	codes      *verificationCodeRepo
	apiKeys    *apiKeyRepo
	signupKeys *signupKeyRepo
	activity   *activityRepo
}

// New crea un Store vacío.
func New() *Store {
	s := &Store{}
	s.accounts = &accountRepo{store: s, byID: map[string]*repository.Account{}}
	s.tokens = &refreshTokenRepo{store: s, byHash: map[string]*repository.RefreshToken{}}
	s.codes = &verificationCodeRepo{store: s}
	s.apiKeys = &apiKeyRepo{store: s, byID: map[string]*repository.APIKey{}}
	s.signupKeys = &signupKeyRepo{store: s, byID: map[string]*repository.SignupKey{}}
	s.activity = &activityRepo{store: s}
	return s
}

func (s *Store) Accounts() repository.AccountRepository                   { return s.accounts }
func (s *Store) RefreshTokens() repository.RefreshTokenRepository         { return s.tokens }
func (s *Store) VerificationCodes() repository.VerificationCodeRepository { return s.codes }
func (s *Store) APIKeys() repository.APIKeyRepository                     { return s.apiKeys }
func (s *Store) SignupKeys() repository.SignupKeyRepository               { return s.signupKeys }
func (s *Store) Activity() repository.ActivityRepository                  { return s.activity }

// Ping siempre responde OK. Existe para satisfacer los health checks.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
