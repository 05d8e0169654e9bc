// AngelaMos | 2026
// cookie.go

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/config"
)

// CookieWriter places the session token in an http-only cookie.
type CookieWriter struct {
	name     string
	domain   string
	sameSite http.SameSite
	secure   bool
}

func NewCookieWriter(cfg config.SessionConfig, secure bool) *CookieWriter {
	name := cfg.CookieName
	if name == "" {
		name = "token"
	}

	return &CookieWriter{
		name:     name,
		domain:   cfg.CookieDomain,
		sameSite: parseSameSite(cfg.SameSite),
		secure:   secure,
	}
}

func (c *CookieWriter) Name() string {
	return c.name
}

func (c *CookieWriter) Set(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		Domain:   c.domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

func (c *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
