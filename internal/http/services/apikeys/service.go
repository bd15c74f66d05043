// Package apikeys contiene el service de gestión de API keys propias.
package apikeys

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/domain/repository"
	"github.com/opsboard/opsboard/internal/observability/logger"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

var (
	ErrMissingFields = fmt.Errorf("missing required fields")
	ErrNotOwner      = fmt.Errorf("key does not belong to account")
)

// Service maneja las API keys de una cuenta. Todas las operaciones están
// acotadas a la cuenta dueña: una key ajena se reporta como inexistente.
type Service interface {
	// Create genera el secreto y lo retorna una única vez junto con la key.
	Create(ctx context.Context, account *repository.Account, name, ip string) (*repository.APIKey, string, error)

	List(ctx context.Context, account *repository.Account) ([]repository.APIKey, error)
	SetActive(ctx context.Context, account *repository.Account, id string, active bool, ip string) (*repository.APIKey, error)
	Delete(ctx context.Context, account *repository.Account, id string, ip string) error
}

// Deps contiene las dependencias del service de API keys.
type Deps struct {
	Keys  repository.APIKeyRepository
	Audit *audit.Recorder
}

type service struct {
	deps Deps
}

// NewService crea el service de API keys.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, account *repository.Account, name, ip string) (*repository.APIKey, string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("apikeys"),
		logger.AccountID(account.ID),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", ErrMissingFields
	}

	secret, err := tokens.GenerateAPIKey()
	if err != nil {
		return nil, "", err
	}

	key, err := s.deps.Keys.Create(ctx, repository.CreateAPIKeyInput{
		AccountID:  account.ID,
		Name:       name,
		SecretHash: tokens.SHA256Hex(secret),
		Masked:     tokens.Mask(secret),
	})
	if err != nil {
		log.Error("api key create failed", logger.Err(err))
		return nil, "", err
	}

	s.deps.Audit.Record(ctx, account.ID, "apikey.create", "name="+name, ip)
	log.Info("api key created", logger.APIKeyID(key.ID))

	// El secreto en claro se retorna esta única vez
	return key, secret, nil
}

func (s *service) List(ctx context.Context, account *repository.Account) ([]repository.APIKey, error) {
	return s.deps.Keys.ListByAccount(ctx, account.ID)
}

func (s *service) SetActive(ctx context.Context, account *repository.Account, id string, active bool, ip string) (*repository.APIKey, error) {
	key, err := s.owned(ctx, account, id)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Keys.SetActive(ctx, key.ID, active); err != nil {
		return nil, err
	}
	key.Active = active

	action := "apikey.disable"
	if active {
		action = "apikey.enable"
	}
	s.deps.Audit.Record(ctx, account.ID, action, "target="+id, ip)
	return key, nil
}

func (s *service) Delete(ctx context.Context, account *repository.Account, id string, ip string) error {
	key, err := s.owned(ctx, account, id)
	if err != nil {
		return err
	}

	if err := s.deps.Keys.Delete(ctx, key.ID); err != nil {
		return err
	}
	s.deps.Audit.Record(ctx, account.ID, "apikey.delete", "target="+id, ip)
	return nil
}

// owned carga la key y verifica pertenencia. Key ajena => ErrNotFound,
// para no revelar existencia.
func (s *service) owned(ctx context.Context, account *repository.Account, id string) (*repository.APIKey, error) {
	key, err := s.deps.Keys.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if key.AccountID != account.ID {
		return nil, repository.ErrNotFound
	}
	return key, nil
}
