// Package admin contiene los services de administración: cuentas, signup
// keys y el log de actividad.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/opsboard/opsboard/internal/audit"
	"github.com/opsboard/opsboard/internal/domain/repository"
	dto "github.com/opsboard/opsboard/internal/http/dto/admin"
	"github.com/opsboard/opsboard/internal/security/password"
)

// Errores de los services de admin.
var (
	ErrMissingFields = fmt.Errorf("missing required fields")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrEmailTaken    = fmt.Errorf("email already registered")
	ErrSelfDelete    = fmt.Errorf("cannot delete own account")
)

// UsersService maneja el CRUD de cuentas por parte de admins.
type UsersService interface {
	List(ctx context.Context, limit, offset int) ([]repository.Account, int, error)

	// Create da de alta una cuenta ya activa, sin paso de verificación.
	Create(ctx context.Context, actor *repository.Account, in dto.CreateUserRequest, ip string) (*repository.Account, error)

	// Update muta nombre, rol y/o estado. La transición a active desde
	// cualquier otro estado dispara el email de aprobación.
	Update(ctx context.Context, actor *repository.Account, id string, in dto.UpdateUserRequest, ip string) (*repository.Account, error)

	// Delete hace soft-delete. Un admin no puede borrarse a sí mismo.
	Delete(ctx context.Context, actor *repository.Account, id string, ip string) error
}

// SignupKeysService maneja el CRUD de signup keys externas.
type SignupKeysService interface {
	// Create genera el secreto y lo retorna una única vez junto con la key.
	Create(ctx context.Context, actor *repository.Account, in dto.CreateSignupKeyRequest, ip string) (*repository.SignupKey, string, error)

	List(ctx context.Context) ([]repository.SignupKey, error)
	Update(ctx context.Context, actor *repository.Account, id string, in dto.UpdateSignupKeyRequest, ip string) (*repository.SignupKey, error)
	Delete(ctx context.Context, actor *repository.Account, id string, ip string) error
}

// ActivityService expone el log de actividad.
type ActivityService interface {
	List(ctx context.Context, limit, offset int) ([]repository.Activity, error)
}

// Services agrupa los services del dominio admin.
type Services struct {
	Users      UsersService
	SignupKeys SignupKeysService
	Activity   ActivityService
}

// Mailer es el sink de notificaciones del dominio admin.
type Mailer interface {
	SendApprovalNotice(to, name string) error
}

// Deps contiene las dependencias compartidas de los services de admin.
type Deps struct {
	Accounts   repository.AccountRepository
	SignupKeys repository.SignupKeyRepository
	Activity   repository.ActivityRepository
	Mailer     Mailer
	Audit      *audit.Recorder
	HashParams password.Params
	Now        func() time.Time // nil = time.Now
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
		Users:      NewUsersService(deps),
		SignupKeys: NewSignupKeysService(deps),
		Activity:   NewActivityService(deps),
	}
}
