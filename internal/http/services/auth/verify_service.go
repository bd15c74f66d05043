package auth

import (
	"context"
	"strings"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

type verifyService struct {
	deps Deps
}

// NewVerifyService crea el servicio de verificación de email.
func NewVerifyService(deps Deps) VerifyService {
	return &verifyService{deps: deps}
}

func (s *verifyService) Verify(ctx context.Context, in dto.VerifyRequest, ip string) (*VerifyResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.verify"),
		logger.Op("Verify"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Code = strings.TrimSpace(in.Code)
	if in.Email == "" || in.Code == "" {
		return nil, ErrMissingFields
	}

	// Consumo atómico: inexistente, usado o expirado responden igual.
	// No filtramos cuál condición falló.
	vc, err := s.deps.Codes.Consume(ctx, in.Email, in.Code, s.deps.now())
	if err != nil {
		log.Debug("code consume failed")
		return nil, ErrInvalidCode
	}

	s.deps.Audit.Record(ctx, "", "auth.verify", "email="+in.Email, ip)

	if !vc.AutoApprove {
		// Flujo general: el email quedó verificado pero la cuenta sigue
		// pendiente hasta que un admin la apruebe.
		log.Info("email verified, awaiting approval", logger.Email(in.Email))
		return &VerifyResult{Activated: false}, nil
	}

	// Camino auto-approve: la verificación activa la cuenta y emite tokens.
	acc, err := s.deps.Accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("account lookup failed after verify", logger.Err(err))
		return nil, ErrInvalidCode
	}

	if acc.Status != repository.StatusActive {
		status := repository.StatusActive
		acc, err = s.deps.Accounts.Update(ctx, acc.ID, repository.UpdateAccountInput{Status: &status})
		if err != nil {
			log.Error("account activation failed", logger.Err(err))
			return nil, ErrTokenIssueFailed
		}
	}

	result, err := mintSession(ctx, s.deps, acc)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("email verified, account activated", logger.AccountID(acc.ID))
	return &VerifyResult{
		Account:      acc,
		Activated:    true,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

func (s *verifyService) ResendCode(ctx context.Context, email string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.verify"),
		logger.Op("ResendCode"),
	)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrMissingFields
	}

	// El código nuevo hereda branding y política del último emitido.
	// Los códigos anteriores siguen vigentes hasta su propia expiración.
	prev, err := s.deps.Codes.GetLatestByEmail(ctx, email)
	if err != nil {
		log.Debug("no previous code for email")
		return ErrInvalidCode
	}

	code, err := tokens.GenerateVerificationCode()
	if err != nil {
		return err
	}

	appName := prev.AppName
	if appName == "" {
		appName = s.deps.AppName
	}

	if _, err := s.deps.Codes.Create(ctx, repository.CreateVerificationCodeInput{
		Email:       email,
		Code:        code,
		ExpiresAt:   s.deps.now().Add(s.deps.VerifyTTL),
		SignupKeyID: prev.SignupKeyID,
		AppName:     appName,
		AutoApprove: prev.AutoApprove,
	}); err != nil {
		return err
	}

	// El envío del código sí se espera: si falla, el registrante debe saberlo.
	if err := s.deps.Mailer.SendVerificationCode(email, code, appName, s.deps.VerifyTTL); err != nil {
		log.Error("verification email send failed", logger.Err(err))
		return ErrSendFailed
	}

	log.Info("verification code resent", logger.Email(email))
	return nil
}
