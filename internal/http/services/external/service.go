// Package external contiene el service de la superficie externa: registro,
// verificación y login de cuentas provisionadas por aplicaciones de terceros
// bajo una signup key.
package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/domain/repository"
	authdto "github.com/opsboard/opsboard/internal/http/dto/auth"
	extdto "github.com/opsboard/opsboard/internal/http/dto/external"
	authsvc "github.com/opsboard/opsboard/internal/http/services/auth"
	"github.com/opsboard/opsboard/internal/observability/logger"
	"github.com/opsboard/opsboard/internal/security/password"
	tokens "github.com/opsboard/opsboard/internal/security/token"
)

// Errores del service externo. Los de login/verify se reexportan del
// dominio auth: la semántica es la misma.
var (
	ErrMissingFields = authsvc.ErrMissingFields
	ErrEmailTaken    = authsvc.ErrEmailTaken
	ErrSendFailed    = authsvc.ErrSendFailed
	ErrWeakPassword  = fmt.Errorf("password too short")
)

// Service maneja los flujos de la superficie externa.
type Service interface {
	// Register crea una cuenta pending y envía el código de verificación
	// con el branding de la app dueña de la signup key.
	Register(ctx context.Context, key *repository.SignupKey, in extdto.RegisterRequest, ip string) error

	// Verify consume el código. Con auto-approve activa la cuenta y emite
	// tokens en el mismo paso.
	Verify(ctx context.Context, in extdto.VerifyRequest, ip string) (*authsvc.VerifyResult, error)

	// Login autentica por password; el refresh token viaja en el body.
	Login(ctx context.Context, in extdto.LoginRequest, ip string) (*authsvc.LoginResult, error)
}

// Deps contiene las dependencias del service externo.
type Deps struct {
	Accounts   repository.AccountRepository
	Codes      repository.VerificationCodeRepository
	Auth       authsvc.Services
	Mailer     authsvc.Mailer
	Audit      *audit.Recorder
	HashParams password.Params
	VerifyTTL  time.Duration
	Now        func() time.Time
}

type service struct {
	deps Deps
}

// NewService crea el service externo.
func NewService(deps Deps) Service {
	return &service{deps: deps}
}

const minPasswordLen = 8

func (s *service) now() time.Time {
	if s.deps.Now != nil {
		return s.deps.Now()
	}
	return time.Now().UTC()
}

func (s *service) Register(ctx context.Context, key *repository.SignupKey, in extdto.RegisterRequest, ip string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("external.register"),
		logger.SignupKeyID(key.ID),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return ErrMissingFields
	}
	if !strings.Contains(in.Email, "@") {
		return ErrMissingFields
	}
	if len(in.Password) < minPasswordLen {
		return ErrWeakPassword
	}

	hash, err := password.Hash(s.deps.HashParams, in.Password)
	if err != nil {
		return err
	}

	// La primera cuenta del sistema nace activa y admin (bootstrap).
	role := repository.RoleUser
	status := repository.StatusPending
	if count, cerr := s.deps.Accounts.Count(ctx); cerr == nil && count == 0 {
		role = repository.RoleAdmin
		status = repository.StatusActive
	}

	acc, err := s.deps.Accounts.Create(ctx, repository.CreateAccountInput{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return ErrEmailTaken
		}
		log.Error("account create failed", logger.Err(err))
		return err
	}

	code, err := tokens.GenerateVerificationCode()
	if err != nil {
		return err
	}
	if _, err := s.deps.Codes.Create(ctx, repository.CreateVerificationCodeInput{
		Email:       in.Email,
		Code:        code,
		ExpiresAt:   s.now().Add(s.deps.VerifyTTL),
		SignupKeyID: &key.ID,
		AppName:     key.AppName,
		AutoApprove: key.AutoApprove,
	}); err != nil {
		return err
	}

	s.deps.Audit.Record(ctx, "", "external.register", "app="+key.AppName+" email="+in.Email, ip)

	// El envío se espera: si falla, el registrante recibe el error.
	// La cuenta ya creada persiste; la ventana de inconsistencia se
	// resuelve con resend-code.
	if err := s.deps.Mailer.SendVerificationCode(in.Email, code, key.AppName, s.deps.VerifyTTL); err != nil {
		log.Error("verification email send failed", logger.Err(err))
		return ErrSendFailed
	}

	log.Info("external registration ok", logger.AccountID(acc.ID))
	return nil
}

func (s *service) Verify(ctx context.Context, in extdto.VerifyRequest, ip string) (*authsvc.VerifyResult, error) {
	return s.deps.Auth.Verify.Verify(ctx, authdto.VerifyRequest{Email: in.Email, Code: in.Code}, ip)
}

func (s *service) Login(ctx context.Context, in extdto.LoginRequest, ip string) (*authsvc.LoginResult, error) {
	return s.deps.Auth.Login.Login(ctx, authdto.LoginRequest{Email: in.Email, Password: in.Password}, ip)
}
