package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/api/metrics"
	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

const (
	registerPath  = "/register"
	localStrategy = "local"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionService
	starter     sessionStarter
	cookie      middleware.SessionCookie
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionService, cookie middleware.SessionCookie, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		starter:     sessionStarter{sessions: sessions, cookie: cookie},
		cookie:      cookie,
		log:         log,
	}
}

// credentialsForm is the body of the login and registration forms. The email
// travels in the "username" field.
type credentialsForm struct {
	Email    string `form:"username" validate:"required,max=320"`
	Password string `form:"password" validate:"required"`
}

// Login runs the local strategy. Every authentication failure, whatever its
// cause, redirects to the login page with no further detail.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsForm
	if err := c.Bind(&req); err != nil {
		metrics.SignInsTotal.WithLabelValues(localStrategy, metrics.ResultInvalidForm).Inc()
		return c.Redirect(http.StatusFound, loginPath)
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignInsTotal.WithLabelValues(localStrategy, metrics.ResultInvalidForm).Inc()
		return c.Redirect(http.StatusFound, loginPath)
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := signInResult(err)
		metrics.SignInsTotal.WithLabelValues(localStrategy, result).Inc()
		if result == metrics.ResultStoreError {
			return err
		}
		return c.Redirect(http.StatusFound, loginPath)
	}

	metrics.SignInsTotal.WithLabelValues(localStrategy, metrics.ResultSuccess).Inc()
	return h.starter.start(c, user)
}

// Register creates a local account and signs it in. A taken email sends the
// browser to the login page without touching the existing account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsForm
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalidForm).Inc()
		return c.Redirect(http.StatusFound, registerPath)
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalidForm).Inc()
		return c.Redirect(http.StatusFound, registerPath)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserExists):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultUserExists).Inc()
		return c.Redirect(http.StatusFound, loginPath)
	case errors.Is(err, domain.ErrHash), errors.Is(err, domain.ErrInvalidCredentials):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalidForm).Inc()
		return c.Redirect(http.StatusFound, registerPath)
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultStoreError).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return h.starter.start(c, user)
}

// Logout destroys the session. When the session store cannot do so the
// request fails and the cookie is kept.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.End(c.Request().Context(), h.cookie.Read(c)); err != nil {
		metrics.SessionOperationsTotal.WithLabelValues("end", metrics.ResultStoreError).Inc()
		return err
	}
	metrics.SessionOperationsTotal.WithLabelValues("end", metrics.ResultSuccess).Inc()

	h.cookie.Clear(c)
	return c.Redirect(http.StatusFound, homePath)
}

func signInResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return metrics.ResultUserNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		return metrics.ResultInvalidCredentials
	case errors.Is(err, domain.ErrHash):
		return metrics.ResultHashError
	case errors.Is(err, domain.ErrProvider):
		return metrics.ResultProviderError
	default:
		return metrics.ResultStoreError
	}
}
