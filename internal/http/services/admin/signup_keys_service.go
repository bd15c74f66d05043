package admin

import (
	"context"
	"strings"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/admin"
	"github.com/opsboard/opsboard/internal/observability/logger"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

type signupKeysService struct {
	deps Deps
}

// NewSignupKeysService crea el servicio de signup keys.
func NewSignupKeysService(deps Deps) SignupKeysService {
	return &signupKeysService{deps: deps}
}

func (s *signupKeysService) Create(ctx context.Context, actor *repository.Account, in dto.CreateSignupKeyRequest, ip string) (*repository.SignupKey, string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.signup_keys"),
		logger.Op("Create"),
	)

	in.AppName = strings.TrimSpace(in.AppName)
	if in.AppName == "" {
		return nil, "", ErrMissingFields
	}
	if in.RateLimit < 0 {
		return nil, "", ErrInvalidInput
	}

	secret, err := tokens.GenerateSignupKey()
	if err != nil {
		return nil, "", err
	}

	key, err := s.deps.SignupKeys.Create(ctx, repository.CreateSignupKeyInput{
		AccountID:   actor.ID,
		AppName:     in.AppName,
		SecretHash:  tokens.SHA256Hex(secret),
		Masked:      tokens.Mask(secret),
		AutoApprove: in.AutoApprove,
		RateLimit:   in.RateLimit,
	})
	if err != nil {
		log.Error("signup key create failed", logger.Err(err))
		return nil, "", err
	}

	s.deps.Audit.Record(ctx, actor.ID, "admin.signup_key.create", "app="+in.AppName, ip)
	log.Info("signup key created", logger.SignupKeyID(key.ID))

	// El secreto en claro se retorna esta única vez
	return key, secret, nil
}

func (s *signupKeysService) List(ctx context.Context) ([]repository.SignupKey, error) {
	return s.deps.SignupKeys.List(ctx)
}

func (s *signupKeysService) Update(ctx context.Context, actor *repository.Account, id string, in dto.UpdateSignupKeyRequest, ip string) (*repository.SignupKey, error) {
	input := repository.UpdateSignupKeyInput{
		Active:      in.Active,
		AutoApprove: in.AutoApprove,
	}
	if in.AppName != nil {
		name := strings.TrimSpace(*in.AppName)
		if name == "" {
			return nil, ErrMissingFields
		}
		input.AppName = &name
	}
	if in.RateLimit != nil {
		if *in.RateLimit < 0 {
			return nil, ErrInvalidInput
		}
		input.RateLimit = in.RateLimit
	}
	if input.AppName == nil && input.Active == nil && input.AutoApprove == nil && input.RateLimit == nil {
		return nil, ErrMissingFields
	}

	key, err := s.deps.SignupKeys.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.deps.Audit.Record(ctx, actor.ID, "admin.signup_key.update", "target="+id, ip)
	return key, nil
}

func (s *signupKeysService) Delete(ctx context.Context, actor *repository.Account, id string, ip string) error {
	if err := s.deps.SignupKeys.Delete(ctx, id); err != nil {
		return err
	}
	s.deps.Audit.Record(ctx, actor.ID, "admin.signup_key.delete", "target="+id, ip)
	return nil
}
