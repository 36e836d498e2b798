package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

const userKey = "user"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// Session resolves the session cookie and attaches the current user to the
// context. Requests without a live session continue anonymously; a failing
// session store is logged and also treated as anonymous.
func Session(sessions ports.SessionService, cookie SessionCookie, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Read(c)
			if token == "" {
				return next(c)
			}

			user, err := sessions.Resolve(c.Request().Context(), token)
			switch {
			case err == nil:
				c.Set(userKey, user)
			case errors.Is(err, domain.ErrUnauthenticated):
			default:
				log.Warn().Err(err).
					Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
					Msg("resolve session")
			}
			return next(c)
		}
	}
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}
