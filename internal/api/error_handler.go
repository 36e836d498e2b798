package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/web"
)

type errorView struct {
	Status  int
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends unauthenticated requests to the login page.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the error page, or plain text when the page itself fails.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthenticated) {
			_ = c.Redirect(http.StatusFound, middleware.LoginPath)
			return
		}

		code, msg := resolveError(err, log, c)
		if rerr := c.Render(code, web.PageError, errorView{Status: code, Message: msg}); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logError(log, c, err)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	logError(log, c, err)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return http.StatusInternalServerError, "The service is temporarily unavailable."
	}
	return http.StatusInternalServerError, "Something went wrong."
}

func logError(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
