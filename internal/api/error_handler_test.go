package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/web"
)

func newErrorContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer

	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/secrets", nil), rec), rec
}

func TestHTTPErrorHandler_UnauthenticatedRedirects(t *testing.T) {
	c, rec := newErrorContext(t)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("view: %w", domain.ErrUnauthenticated), c)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestHTTPErrorHandler_StoreFailureRendersErrorPage(t *testing.T) {
	c, rec := newErrorContext(t)
	var logs bytes.Buffer

	storeErr := fmt.Errorf("find user: %w: %w", domain.ErrStoreUnavailable, errors.New("dial tcp: refused"))
	NewHTTPErrorHandler(zerolog.New(&logs))(storeErr, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
	assert.NotContains(t, rec.Body.String(), "dial tcp")
	assert.Contains(t, logs.String(), "dial tcp")
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	c, rec := newErrorContext(t)

	NewHTTPErrorHandler(zerolog.Nop())(echo.NewHTTPError(http.StatusBadRequest, "invalid form"), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid form")
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	c, rec := newErrorContext(t)
	require.NoError(t, c.String(http.StatusOK, "done"))

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
