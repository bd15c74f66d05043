package auth

import (
	"context"
	"strings"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/security/password"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

type loginService struct {
	deps Deps
}

// NewLoginService crea un nuevo servicio de login.
func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest, ip string) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	// Paso 0: Normalización
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	// Paso 1: Buscar cuenta y verificar password
	acc, err := s.deps.Accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Debug("account not found")
		return nil, ErrInvalidCredentials
	}

	log = log.With(logger.AccountID(acc.ID))

	if !password.Verify(in.Password, acc.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrInvalidCredentials
	}

	// Paso 2: Gating por estado.
	// Nota: pending y blocked se distinguen en el mensaje al cliente.
	// Eso filtra la existencia de la cuenta; se mantiene por compatibilidad
	// con los clientes del panel.
	switch acc.Status {
	case repository.StatusPending:
		log.Info("login rejected: pending approval")
		return nil, ErrAccountPending
	case repository.StatusBlocked:
		log.Info("login rejected: blocked")
		return nil, ErrAccountBlocked
	}

	// Paso 3: Emitir tokens
	result, err := mintSession(ctx, s.deps, acc)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	// Paso 4: Side effects
	now := s.deps.now()
	if err := s.deps.Accounts.TouchLastLogin(ctx, acc.ID, now); err != nil {
		log.Warn("last-login update failed", logger.Err(err))
	}
	s.deps.Audit.Record(ctx, acc.ID, "auth.login", "", ip)

	log.Info("login ok")
	return result, nil
}

// mintSession emite el par access + refresh y persiste el hash del refresh.
func mintSession(ctx context.Context, deps Deps, acc *repository.Account) (*LoginResult, error) {
	access, expiresAt, err := deps.Issuer.IssueAccess(acc)
	if err != nil {
		return nil, err
	}

	raw, err := tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if _, err := deps.Tokens.Create(ctx, repository.CreateRefreshTokenInput{
		AccountID: acc.ID,
		TokenHash: tokens.SHA256Hex(raw),
		ExpiresAt: deps.now().Add(deps.RefreshTTL),
	}); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		ExpiresAt:    expiresAt,
		RefreshToken: raw,
		Account:      acc,
	}, nil
}
