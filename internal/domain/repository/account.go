package repository

import (
	"context"
	"time"
)

// Role es el rol de una cuenta. Enum cerrado, validado en el borde.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole valida un rol recibido como string.
// Retorna ErrInvalidInput si no es un rol conocido.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", ErrInvalidInput
}

// Status es el estado del ciclo de vida de una cuenta.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// ParseStatus valida un status recibido como string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusBlocked:
		return Status(s), nil
	}
	return "", ErrInvalidInput
}

// Account representa una cuenta del panel.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Status       Status
	DeletedAt    *time.Time
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsActive reporta si la cuenta puede autenticarse.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive && a.DeletedAt == nil
}

// CreateAccountInput contiene los datos para crear una cuenta.
type CreateAccountInput struct {
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Status       Status
}

// UpdateAccountInput contiene los campos mutables de una cuenta.
// Punteros nil = sin cambio.
type UpdateAccountInput struct {
	Name   *string
	Email  *string
	Role   *Role
	Status *Status
}

// AccountRepository define operaciones sobre cuentas.
// Todas las búsquedas excluyen cuentas con soft-delete.
type AccountRepository interface {
	// Create crea una nueva cuenta.
	// Retorna ErrConflict si el email ya existe entre cuentas no eliminadas.
	Create(ctx context.Context, input CreateAccountInput) (*Account, error)

	// GetByID busca una cuenta por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByEmail busca una cuenta por email (match exacto, case-sensitive).
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// List lista cuentas no eliminadas ordenadas por fecha de creación.
	List(ctx context.Context, limit, offset int) ([]Account, error)

	// Count cuenta las cuentas no eliminadas (se usa para detectar la
	// "primera cuenta del sistema" en el bootstrap).
	Count(ctx context.Context) (int, error)

	// Update aplica los campos no-nil de input.
	// Retorna ErrNotFound si no existe, ErrConflict si el nuevo email está tomado.
	Update(ctx context.Context, id string, input UpdateAccountInput) (*Account, error)

	// UpdatePasswordHash reemplaza el hash de password.
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// TouchLastLogin registra el timestamp del último login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// SoftDelete marca la cuenta como eliminada; nunca borra la fila.
	// Retorna ErrNotFound si no existe o ya estaba eliminada.
	SoftDelete(ctx context.Context, id string) error
}
