package repository

import (
	"context"
	"time"
)

// RefreshToken representa un token de refresco persistido.
// El token opaco nunca se guarda en claro: solo su hash SHA-256.
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reporta si el token ya venció respecto de now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// CreateRefreshTokenInput contiene los datos para persistir un refresh token.
type CreateRefreshTokenInput struct {
	AccountID string
	TokenHash string
	ExpiresAt time.Time
}

// RefreshTokenRepository define operaciones sobre refresh tokens.
type RefreshTokenRepository interface {
	// Create persiste un nuevo refresh token y retorna su ID.
	Create(ctx context.Context, input CreateRefreshTokenInput) (string, error)

	// GetByHash busca un token por su hash. Retorna ErrNotFound si no existe.
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// Delete elimina un token por su hash. Idempotente: ausencia no es error.
	Delete(ctx context.Context, tokenHash string) error

	// DeleteAllByAccount elimina todos los tokens de una cuenta.
	// Retorna el número de tokens eliminados.
	DeleteAllByAccount(ctx context.Context, accountID string) (int, error)
}
