// Package admin contiene los DTOs de la superficie de administración.
package admin

import (
	"time"

	authdto "github.com/opsboard/opsboard/internal/http/dto/auth"
)

// ─── Users ───

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // vacío = "user"
}

// UpdateUserRequest usa punteros: nil = sin cambio.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type UserListResponse struct {
	Users []authdto.User `json:"users"`
	Total int            `json:"total"`
}

// ─── Signup keys ───

type CreateSignupKeyRequest struct {
	AppName     string `json:"appName"`
	AutoApprove bool   `json:"autoApprove"`
	RateLimit   int    `json:"rateLimit"` // 0 = default del servidor
}

type UpdateSignupKeyRequest struct {
	AppName     *string `json:"appName"`
	Active      *bool   `json:"active"`
	AutoApprove *bool   `json:"autoApprove"`
	RateLimit   *int    `json:"rateLimit"`
}

// SignupKey es la vista de una signup key. Key expone el secreto completo
// solo en la respuesta de creación; después queda solo la forma enmascarada.
type SignupKey struct {
	ID          string     `json:"id"`
	AppName     string     `json:"appName"`
	Key         string     `json:"key,omitempty"`
	MaskedKey   string     `json:"maskedKey"`
	Active      bool       `json:"active"`
	AutoApprove bool       `json:"autoApprove"`
	RateLimit   int        `json:"rateLimit"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type SignupKeyListResponse struct {
	Keys []SignupKey `json:"keys"`
}

// ─── Activity ───

type Activity struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ActivityListResponse struct {
	Entries []Activity `json:"entries"`
}
