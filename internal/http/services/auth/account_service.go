package auth

import (
	"context"
	"strings"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/security/password"
)

type accountService struct {
	deps Deps
}

// NewAccountService crea el servicio de gestión de la propia cuenta.
func NewAccountService(deps Deps) AccountService {
	return &accountService{deps: deps}
}

const minPasswordLen = 8

func (s *accountService) ChangePassword(ctx context.Context, account *repository.Account, in dto.ChangePasswordRequest, ip string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.account"),
		logger.Op("ChangePassword"),
		logger.AccountID(account.ID),
	)

	if in.CurrentPassword == "" || in.NewPassword == "" {
		return ErrMissingFields
	}
	if len(in.NewPassword) < minPasswordLen {
		return ErrMissingFields
	}

	// Prueba de posesión: la password actual debe verificar.
	if !password.Verify(in.CurrentPassword, account.PasswordHash) {
		log.Debug("current password check failed")
		return ErrWrongPassword
	}

	hash, err := password.Hash(s.deps.HashParams, in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.deps.Accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return err
	}

	// Revocar todas las sesiones: fuerza re-login en todos los clientes.
	revoked, err := s.deps.Tokens.DeleteAllByAccount(ctx, account.ID)
	if err != nil {
		log.Error("session revocation failed", logger.Err(err))
		return err
	}

	s.deps.Audit.Record(ctx, account.ID, "auth.change_password", "", ip)
	log.Info("password changed", logger.Count(revoked))
	return nil
}

func (s *accountService) UpdateProfile(ctx context.Context, account *repository.Account, in dto.UpdateProfileRequest) (*repository.Account, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.account"),
		logger.Op("UpdateProfile"),
		logger.AccountID(account.ID),
	)

	input := repository.UpdateAccountInput{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrMissingFields
		}
		input.Name = &name
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, ErrMissingFields
		}
		input.Email = &email
	}
	if input.Name == nil && input.Email == nil {
		return nil, ErrMissingFields
	}

	updated, err := s.deps.Accounts.Update(ctx, account.ID, input)
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		log.Error("profile update failed", logger.Err(err))
		return nil, err
	}

	log.Info("profile updated")
	return updated, nil
}
