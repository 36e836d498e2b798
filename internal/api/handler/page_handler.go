package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secretkeeper/secrets/internal/web"
)

// PageHandler serves the static forms.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageHome, nil)
}

func (h *PageHandler) Login(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageLogin, nil)
}

func (h *PageHandler) Register(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageRegister, nil)
}
