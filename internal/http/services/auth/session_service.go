package auth

import (
	"context"

	"github.com/opsboard/opsboard/internal/observability/logger"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

type sessionService struct {
	deps Deps
}

// NewSessionService crea el servicio de sesiones (refresh/logout).
func NewSessionService(deps Deps) SessionService {
	return &sessionService{deps: deps}
}

func (s *sessionService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("Refresh"),
	)

	if rawToken == "" {
		return nil, ErrInvalidRefresh
	}

	hash := tokens.SHA256Hex(rawToken)
	rt, err := s.deps.Tokens.GetByHash(ctx, hash)
	if err != nil {
		log.Debug("refresh token not found")
		return nil, ErrInvalidRefresh
	}

	// Limpieza lazy: un token vencido se borra al ser presentado.
	if rt.Expired(s.deps.now()) {
		_ = s.deps.Tokens.Delete(ctx, hash)
		log.Debug("refresh token expired, deleted")
		return nil, ErrInvalidRefresh
	}

	acc, err := s.deps.Accounts.GetByID(ctx, rt.AccountID)
	if err != nil || !acc.IsActive() {
		log.Debug("account no longer active")
		return nil, ErrInvalidRefresh
	}

	// Solo se emite un nuevo access token. El refresh no rota: el mismo
	// string opaco sigue vigente hasta su expiración original.
	access, expiresAt, err := s.deps.Issuer.IssueAccess(acc)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	return &LoginResult{
		AccessToken:  access,
		ExpiresAt:    expiresAt,
		RefreshToken: rawToken,
		Account:      acc,
	}, nil
}

func (s *sessionService) Logout(ctx context.Context, rawToken string, ip string) error {
	if rawToken == "" {
		return nil
	}

	hash := tokens.SHA256Hex(rawToken)

	// Auditar solo si el token existía (segunda llamada no genera evento)
	if rt, err := s.deps.Tokens.GetByHash(ctx, hash); err == nil {
		s.deps.Audit.Record(ctx, rt.AccountID, "auth.logout", "", ip)
	}

	// Delete es idempotente: la ausencia no es error
	return s.deps.Tokens.Delete(ctx, hash)
}
