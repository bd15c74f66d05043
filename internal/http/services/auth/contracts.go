// Package auth contiene los services de autenticación: login, sesión
// (refresh/logout), verificación de email y gestión de la propia cuenta.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/auth"
	jwtx "github.com/opsboard/opsboard/internal/jwt"
	"github.com/opsboard/opsboard/internal/security/password"
)

// Errores de los services de auth. Los controllers los mapean a HTTP.
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrAccountPending     = fmt.Errorf("account pending approval")
	ErrAccountBlocked     = fmt.Errorf("account blocked")
	ErrInvalidCode        = fmt.Errorf("invalid or expired code")
	ErrInvalidRefresh     = fmt.Errorf("invalid refresh token")
	ErrEmailTaken         = fmt.Errorf("email already registered")
	ErrWrongPassword      = fmt.Errorf("current password does not match")
	ErrTokenIssueFailed   = fmt.Errorf("failed to issue token")
	ErrSendFailed         = fmt.Errorf("failed to send email")
)

// LoginResult es el resultado de un login o refresh exitoso.
type LoginResult struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string // opaco, en claro; solo se persiste su hash
	Account      *repository.Account
}

// VerifyResult es el resultado de consumir un código de verificación.
// Los tokens solo se emiten en el camino auto-approve ("verify = login").
type VerifyResult struct {
	Account      *repository.Account
	Activated    bool
	AccessToken  string
	RefreshToken string
}

// LoginService maneja autenticación por password.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest, ip string) (*LoginResult, error)
}

// SessionService maneja el ciclo de vida de los refresh tokens.
type SessionService interface {
	// Refresh emite un nuevo access token a partir de un refresh token
	// válido. El refresh token no rota: sigue vigente hasta su expiración.
	Refresh(ctx context.Context, rawToken string) (*LoginResult, error)

	// Logout elimina el refresh token presentado. Idempotente.
	Logout(ctx context.Context, rawToken string, ip string) error
}

// VerifyService maneja códigos de verificación de email.
type VerifyService interface {
	Verify(ctx context.Context, in dto.VerifyRequest, ip string) (*VerifyResult, error)
	ResendCode(ctx context.Context, email string) error
}

// AccountService maneja mutaciones de la propia cuenta.
type AccountService interface {
	// ChangePassword exige la password actual y revoca todos los refresh
	// tokens de la cuenta.
	ChangePassword(ctx context.Context, account *repository.Account, in dto.ChangePasswordRequest, ip string) error

	// UpdateProfile aplica cambios de nombre y/o email.
	UpdateProfile(ctx context.Context, account *repository.Account, in dto.UpdateProfileRequest) (*repository.Account, error)
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login   LoginService
	Session SessionService
	Verify  VerifyService
	Account AccountService
}

// Deps contiene las dependencias compartidas de los services de auth.
type Deps struct {
	Accounts   repository.AccountRepository
	Tokens     repository.RefreshTokenRepository
	Codes      repository.VerificationCodeRepository
	Issuer     *jwtx.Issuer
	Mailer     Mailer
	Audit      *audit.Recorder
	HashParams password.Params
	RefreshTTL time.Duration
	VerifyTTL  time.Duration
	AppName    string
	Now        func() time.Time // nil = time.Now
}

// Mailer es el sink de notificaciones salientes.
type Mailer interface {
	SendVerificationCode(to, code, appName string, ttl time.Duration) error
	SendApprovalNotice(to, name string) error
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// NewServices construye el agregado con las implementaciones por defecto.
func NewServices(deps Deps) Services {
	return Services{
		Login:   NewLoginService(deps),
		Session: NewSessionService(deps),
		Verify:  NewVerifyService(deps),
		Account: NewAccountService(deps),
	}
}
