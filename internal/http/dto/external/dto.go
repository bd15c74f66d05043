// Package external contiene los DTOs de la superficie externa (X-API-Key).
package external

import authdto "github.com/opsboard/opsboard/internal/http/dto/auth"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	AppName string `json:"appName"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyResponse incluye tokens solo cuando la key originante tenía
// auto-approve ("verify = login").
type VerifyResponse struct {
	Message      string        `json:"message"`
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
	User         *authdto.User `json:"user,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse lleva el refresh token en el body: los clientes externos
// son programáticos, no hay cookie de sesión.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         authdto.User `json:"user"`
}
