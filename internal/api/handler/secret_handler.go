package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secretkeeper/secrets/internal/api/metrics"
	"github.com/secretkeeper/secrets/internal/core/ports"
	"github.com/secretkeeper/secrets/internal/web"
)

type SecretHandler struct {
	secretService ports.SecretService
}

func NewSecretHandler(secretService ports.SecretService) *SecretHandler {
	return &SecretHandler{secretService: secretService}
}

type secretForm struct {
	Secret string `form:"secret"`
}

type secretsView struct {
	Secret string
}

// Show renders the current user's secret or the placeholder message.
func (h *SecretHandler) Show(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	secret, err := h.secretService.View(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, web.PageSecrets, secretsView{Secret: secret})
}

func (h *SecretHandler) Form(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	return c.Render(http.StatusOK, web.PageSubmit, nil)
}

// Submit overwrites the user's secret with the submitted text, empty included.
func (h *SecretHandler) Submit(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req secretForm
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	if err := h.secretService.Submit(c.Request().Context(), user, req.Secret); err != nil {
		return err
	}
	metrics.SecretsSubmittedTotal.Inc()
	return c.Redirect(http.StatusFound, secretsPath)
}
