package repository

import (
	"context"
	"time"
)

// VerificationCode es una prueba de propiedad de email, de un solo uso.
// Se asocia al email (string), no al ID de cuenta: el registro externo crea
// el código antes de que exista sesión alguna.
type VerificationCode struct {
	ID          string
	Email       string
	Code        string // 6 dígitos
	ExpiresAt   time.Time
	Used        bool
	SignupKeyID *string // key externa que originó el registro, si aplica
	AppName     string  // branding del app origen para el email
	AutoApprove bool    // si true, la verificación activa la cuenta
	CreatedAt   time.Time
}

// CreateVerificationCodeInput contiene los datos para emitir un código.
type CreateVerificationCodeInput struct {
	Email       string
	Code        string
	ExpiresAt   time.Time
	SignupKeyID *string
	AppName     string
	AutoApprove bool
}

// VerificationCodeRepository define operaciones sobre códigos de verificación.
// Los códigos nunca se borran físicamente (audit trail).
type VerificationCodeRepository interface {
	// Create persiste un nuevo código. Los códigos anteriores para el mismo
	// email siguen vigentes hasta su propia expiración.
	Create(ctx context.Context, input CreateVerificationCodeInput) (*VerificationCode, error)

	// Consume marca como usado el código que matchea (email, code) y que esté
	// sin usar y sin expirar, en una única operación condicional atómica.
	// Retorna el código consumido, o ErrNotFound si ninguna fila calificó
	// (inexistente, ya usado o expirado — indistinguibles a propósito).
	Consume(ctx context.Context, email, code string, now time.Time) (*VerificationCode, error)

	// GetLatestByEmail retorna el código más reciente emitido para un email,
	// usado o no. El reenvío lo usa para heredar branding y política.
	// Retorna ErrNotFound si nunca se emitió uno.
	GetLatestByEmail(ctx context.Context, email string) (*VerificationCode, error)
}
