package admin

import (
	"context"
	"strings"

	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/admin"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/security/password"
)

type usersService struct {
	deps Deps
}

// NewUsersService crea el servicio de administración de cuentas.
func NewUsersService(deps Deps) UsersService {
	return &usersService{deps: deps}
}

func (s *usersService) List(ctx context.Context, limit, offset int) ([]repository.Account, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.deps.Accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.deps.Accounts.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (s *usersService) Create(ctx context.Context, actor *repository.Account, in dto.CreateUserRequest, ip string) (*repository.Account, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.users"),
		logger.Op("Create"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, ErrMissingFields
	}
	if !strings.Contains(in.Email, "@") {
		return nil, ErrInvalidInput
	}

	role := repository.RoleUser
	if in.Role != "" {
		parsed, err := repository.ParseRole(in.Role)
		if err != nil {
			return nil, ErrInvalidInput
		}
		role = parsed
	}

	hash, err := password.Hash(s.deps.HashParams, in.Password)
	if err != nil {
		return nil, err
	}

	// Alta por admin: la cuenta nace activa, sin verificación de email.
	acc, err := s.deps.Accounts.Create(ctx, repository.CreateAccountInput{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Status:       repository.StatusActive,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		log.Error("account create failed", logger.Err(err))
		return nil, err
	}

	s.deps.Audit.Record(ctx, actor.ID, "admin.user.create", "target="+acc.ID, ip)
	log.Info("account created", logger.AccountID(acc.ID))
	return acc, nil
}

func (s *usersService) Update(ctx context.Context, actor *repository.Account, id string, in dto.UpdateUserRequest, ip string) (*repository.Account, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.users"),
		logger.Op("Update"),
		logger.AccountID(id),
	)

	// Leer el estado previo para detectar la transición de aprobación.
	before, err := s.deps.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input := repository.UpdateAccountInput{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrMissingFields
		}
		input.Name = &name
	}
	if in.Role != nil {
		role, perr := repository.ParseRole(*in.Role)
		if perr != nil {
			return nil, ErrInvalidInput
		}
		input.Role = &role
	}
	if in.Status != nil {
		status, perr := repository.ParseStatus(*in.Status)
		if perr != nil {
			return nil, ErrInvalidInput
		}
		input.Status = &status
	}
	if input.Name == nil && input.Role == nil && input.Status == nil {
		return nil, ErrMissingFields
	}

	updated, err := s.deps.Accounts.Update(ctx, id, input)
	if err != nil {
		log.Error("account update failed", logger.Err(err))
		return nil, err
	}

	// Aprobación: pending/blocked -> active notifica por email.
	// Fire-and-forget: un fallo de envío no falla la operación.
	if before.Status != repository.StatusActive && updated.Status == repository.StatusActive {
		go func(to, name string) {
			if err := s.deps.Mailer.SendApprovalNotice(to, name); err != nil {
				logger.L().Warn("approval email send failed",
					logger.Component("admin.users"),
					logger.Email(to),
					logger.Err(err),
				)
			}
		}(updated.Email, updated.Name)
	}

	s.deps.Audit.Record(ctx, actor.ID, "admin.user.update", "target="+id, ip)
	log.Info("account updated")
	return updated, nil
}

func (s *usersService) Delete(ctx context.Context, actor *repository.Account, id string, ip string) error {
	if actor.ID == id {
		return ErrSelfDelete
	}

	if err := s.deps.Accounts.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.deps.Audit.Record(ctx, actor.ID, "admin.user.delete", "target="+id, ip)
	logger.From(ctx).Info("account soft-deleted",
		logger.Layer("service"),
		logger.Component("admin.users"),
		logger.AccountID(id),
	)
	return nil
}
