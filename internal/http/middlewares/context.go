package middlewares

import (
	"context"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxPrincipalKey guarda el Principal autenticado
	ctxPrincipalKey ctxKey = "principal"
	// ctxSignupKeyKey guarda la signup key validada (rutas externas)
	ctxSignupKeyKey ctxKey = "signup_key"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// Métodos de autenticación soportados.
const (
	AuthMethodBearer = "bearer"
	AuthMethodAPIKey = "api_key"
)

// Principal representa la identidad autenticada del request.
// Method indica cómo se autenticó: JWT bearer o API key.
type Principal struct {
	Account *repository.Account
	Method  string
	// APIKey es la key usada, solo presente cuando Method == AuthMethodAPIKey.
	APIKey *repository.APIKey
}

// IsAdmin informa si el principal tiene rol admin.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Account != nil && p.Account.Role == repository.RoleAdmin
}

// =================================================================================
// CONTEXT SETTERS (Internos, usados por middlewares)
// =================================================================================

// WithPrincipal inyecta el principal autenticado en el contexto
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// WithSignupKey inyecta la signup key validada en el contexto
func WithSignupKey(ctx context.Context, k *repository.SignupKey) context.Context {
	return context.WithValue(ctx, ctxSignupKeyKey, k)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (Públicos, usados por handlers/services)
// =================================================================================

// GetPrincipal obtiene el principal del contexto.
// Retorna nil si el request no está autenticado (middleware no aplicado).
func GetPrincipal(ctx context.Context) *Principal {
	if v := ctx.Value(ctxPrincipalKey); v != nil {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return nil
}

// GetAccountID obtiene el ID de la cuenta autenticada.
// Retorna cadena vacía si no hay principal.
func GetAccountID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil && p.Account != nil {
		return p.Account.ID
	}
	return ""
}

// GetSignupKey obtiene la signup key validada del contexto.
// Retorna nil si no hay key (middleware no aplicado o ruta interna).
func GetSignupKey(ctx context.Context) *repository.SignupKey {
	if v := ctx.Value(ctxSignupKeyKey); v != nil {
		if k, ok := v.(*repository.SignupKey); ok {
			return k
		}
	}
	return nil
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
