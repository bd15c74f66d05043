// Package auth contiene los controllers de la superficie de autenticación
// primaria.
package auth

import (
	"net/http"
	"time"

	svc "github.com/opsboard/opsboard/internal/http/services/auth"
)

const contentTypeJSON = "application/json; charset=utf-8"

// maxBodySize limita el tamaño de los bodies JSON de auth.
const maxBodySize = 64 * 1024 // 64KB

// CookieConfig define la cookie de sesión (refresh token).
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	TTL    time.Duration
}

// cookiePath acota la cookie a las rutas de auth: el refresh token no
// viaja en el resto de los requests.
const cookiePath = "/api/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login   *LoginController
	Session *SessionController
	Verify  *VerifyController
	Account *AccountController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services, cookie CookieConfig) *Controllers {
	return &Controllers{
		Login:   NewLoginController(s.Login, cookie),
		Session: NewSessionController(s.Session, cookie),
		Verify:  NewVerifyController(s.Verify),
		Account: NewAccountController(s.Account),
	}
}

func setRefreshCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     cookiePath,
		Domain:   cfg.Domain,
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cookiePath,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func readRefreshCookie(r *http.Request, cfg CookieConfig) string {
	c, err := r.Cookie(cfg.Name)
	if err != nil {
		return ""
	}
	return c.Value
}
