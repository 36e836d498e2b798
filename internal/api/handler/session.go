package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secretkeeper/secrets/internal/api/metrics"
	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

const (
	homePath    = "/"
	loginPath   = middleware.LoginPath
	secretsPath = "/secrets"
)

// sessionStarter finishes every successful sign-in: it starts the session,
// hands the token to the browser and sends it to the secrets page.
type sessionStarter struct {
	sessions ports.SessionService
	cookie   middleware.SessionCookie
}

func (s sessionStarter) start(c echo.Context, user *domain.User) error {
	token, err := s.sessions.Begin(c.Request().Context(), user, s.cookie.Read(c))
	if err != nil {
		metrics.SessionOperationsTotal.WithLabelValues("begin", metrics.ResultStoreError).Inc()
		return err
	}
	metrics.SessionOperationsTotal.WithLabelValues("begin", metrics.ResultSuccess).Inc()

	s.cookie.Write(c, token)
	return c.Redirect(http.StatusFound, secretsPath)
}
