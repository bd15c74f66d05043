package repository

import (
	"context"
	"time"
)

// SignupKey es un capability token de tenant: autoriza a una aplicación
// externa a dar de alta cuentas en este sistema, con su propia política de
// rate limit y auto-aprobación.
type SignupKey struct {
	ID          string
	AccountID   string // admin dueño de la key
	AppName     string
	SecretHash  string
	Masked      string
	Active      bool
	AutoApprove bool // si true, la verificación de email activa la cuenta
	RateLimit   int  // requests por ventana; 0 = default del servidor
	LastUsedAt  *time.Time
	CreatedAt   time.Time
}

// CreateSignupKeyInput contiene los datos para persistir una signup key.
type CreateSignupKeyInput struct {
	AccountID   string
	AppName     string
	SecretHash  string
	Masked      string
	AutoApprove bool
	RateLimit   int
}

// UpdateSignupKeyInput contiene los campos mutables. Punteros nil = sin cambio.
type UpdateSignupKeyInput struct {
	AppName     *string
	Active      *bool
	AutoApprove *bool
	RateLimit   *int
}

// SignupKeyRepository define operaciones sobre signup keys externas.
type SignupKeyRepository interface {
	Create(ctx context.Context, input CreateSignupKeyInput) (*SignupKey, error)

	// GetBySecretHash busca una key por hash del secreto.
	// Retorna ErrNotFound si no existe.
	GetBySecretHash(ctx context.Context, secretHash string) (*SignupKey, error)

	// GetByID busca una key por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*SignupKey, error)

	// List lista todas las signup keys.
	List(ctx context.Context) ([]SignupKey, error)

	// Update aplica los campos no-nil de input.
	Update(ctx context.Context, id string, input UpdateSignupKeyInput) (*SignupKey, error)

	// TouchLastUsed actualiza el timestamp de último uso.
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// Delete elimina una key. Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
