// Package apikeys contiene los DTOs de gestión de API keys propias.
package apikeys

import "time"

type CreateRequest struct {
	Name string `json:"name"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

// APIKey es la vista de una key. Key expone el secreto completo solo en la
// respuesta de creación; se muestra una única vez.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"key,omitempty"`
	MaskedKey  string     `json:"maskedKey"`
	Active     bool       `json:"active"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type ListResponse struct {
	Keys []APIKey `json:"keys"`
}
