package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// DefaultSessionCookieName is the cookie carrying the signed session token.
const DefaultSessionCookieName = "session"

// SessionCookie centralizes how the session token travels in a cookie.
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (sc SessionCookie) name() string {
	if sc.Name == "" {
		return DefaultSessionCookieName
	}
	return sc.Name
}

// Read returns the trimmed session token, or "" when absent.
func (sc SessionCookie) Read(c echo.Context) string {
	cookie, err := c.Cookie(sc.name())
	if err != nil || cookie == nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// Write sets the session token cookie.
func (sc SessionCookie) Write(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sc.name(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(sc.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session token cookie.
func (sc SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
