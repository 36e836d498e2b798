package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/domain"
)

// requireUser returns the session user or domain.ErrUnauthenticated, which the
// error handler turns into a redirect to the login page.
func requireUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
