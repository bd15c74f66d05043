package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/opsboard/opsboard/internal/domain/repository"
)

// ErrInvalidToken cubre firma inválida, token malformado y expiración.
// El caller no distingue entre causas.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims son los claims auto-contenidos de un access token.
// La verificación es stateless: firma + expiración, sin lookup de persistencia.
type AccessClaims struct {
	Email string          `json:"email"`
	Role  repository.Role `json:"role"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida access tokens HS256 con un secreto inyectado por
// configuración. Sin estado global.
type Issuer struct {
	iss       string
	secret    []byte
	accessTTL time.Duration

	// now es inyectable para tests de expiración.
	now func() time.Time
}

// NewIssuer crea un Issuer. accessTTL <= 0 usa el default de 15 minutos.
func NewIssuer(iss string, secret []byte, accessTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &Issuer{
		iss:       iss,
		secret:    secret,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// AccessTTL retorna el TTL configurado (para exponer expires_in).
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// IssueAccess emite un access token firmado para una cuenta.
// Retorna el token y su instante de expiración.
func (i *Issuer) IssueAccess(account *repository.Account) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.accessTTL)

	claims := AccessClaims{
		Email: account.Email,
		Role:  account.Role,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.iss,
			Subject:   account.ID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess valida firma, issuer y ventana temporal de un access token.
// Cualquier falla colapsa a ErrInvalidToken.
func (i *Issuer) ParseAccess(token string) (*AccessClaims, error) {
	var claims AccessClaims
	tok, err := jwtv5.ParseWithClaims(token, &claims,
		func(t *jwtv5.Token) (any, error) { return i.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithIssuer(i.iss),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// WithTimeFunc reemplaza el reloj del issuer. Solo para tests.
func (i *Issuer) WithTimeFunc(now func() time.Time) *Issuer {
	i.now = now
	return i
}
