package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Prefijos fijos para identificar credenciales a simple vista en UI y logs.
const (
	APIKeyPrefix    = "obk_"
	SignupKeyPrefix = "osk_"
)

// refreshTokenBytes es la entropía mínima de un refresh token.
const refreshTokenBytes = 64

// GenerateRefreshToken genera el string opaco de un refresh token:
// 64 bytes aleatorios en hex. Sin claims embebidos, no derivado de datos
// del usuario.
func GenerateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateAPIKey genera un secreto de API key con el prefijo "obk_".
func GenerateAPIKey() (string, error) {
	return generatePrefixed(APIKeyPrefix)
}

// GenerateSignupKey genera un secreto de signup key con el prefijo "osk_".
func GenerateSignupKey() (string, error) {
	return generatePrefixed(SignupKeyPrefix)
}

func generatePrefixed(prefix string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(b), nil
}

// HasAPIKeyPrefix reporta si un bearer presentado es una API key
// (vs un JWT de acceso).
func HasAPIKeyPrefix(s string) bool {
	return strings.HasPrefix(s, APIKeyPrefix)
}

// Mask devuelve la forma enmascarada de un secreto para mostrar en UI:
// prefijo + "****" + últimos 4 caracteres.
func Mask(secret string) string {
	if len(secret) < 8 {
		return "****"
	}
	prefix := ""
	for _, p := range []string{APIKeyPrefix, SignupKeyPrefix} {
		if strings.HasPrefix(secret, p) {
			prefix = p
			break
		}
	}
	return prefix + "****" + secret[len(secret)-4:]
}

// GenerateVerificationCode genera un código de 6 dígitos con distribución
// uniforme sobre 100000–999999.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SHA256Hex devuelve sha256(input) en hexadecimal (forma de guardado en DB
// de refresh tokens y secretos de keys).
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SHA256Base64URL devuelve sha256(input) en base64url sin padding.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
