package repository

import (
	"context"
	"time"
)

// APIKey es una credencial bearer de larga vida para acceso programático.
// El secreto se muestra una sola vez al crearla; en la DB queda solo el
// hash SHA-256 más un sufijo enmascarado para mostrar en UI.
type APIKey struct {
	ID         string
	AccountID  string
	Name       string
	SecretHash string
	Masked     string // ej: "obk_****3f2a"
	Active     bool
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// CreateAPIKeyInput contiene los datos para persistir una API key.
type CreateAPIKeyInput struct {
	AccountID  string
	Name       string
	SecretHash string
	Masked     string
}

// APIKeyRepository define operaciones sobre API keys.
type APIKeyRepository interface {
	// Create persiste una nueva key y retorna su forma almacenada.
	Create(ctx context.Context, input CreateAPIKeyInput) (*APIKey, error)

	// GetBySecretHash busca una key por hash del secreto.
	// Retorna ErrNotFound si no existe.
	GetBySecretHash(ctx context.Context, secretHash string) (*APIKey, error)

	// GetByID busca una key por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*APIKey, error)

	// ListByAccount lista las keys de una cuenta.
	ListByAccount(ctx context.Context, accountID string) ([]APIKey, error)

	// SetActive habilita o deshabilita una key.
	SetActive(ctx context.Context, id string, active bool) error

	// TouchLastUsed actualiza el timestamp de último uso.
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// Delete elimina una key. Retorna ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
