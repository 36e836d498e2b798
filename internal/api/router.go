package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/api/handler"
	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/ports"
	"github.com/secretkeeper/secrets/internal/web"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Sessions ports.SessionService
	Secrets  ports.SecretService
	// Provider is optional; without it the OAuth routes are not mounted.
	Provider ports.IdentityProvider
	Cookie   middleware.SessionCookie
	Renderer echo.Renderer
	Ready    []handler.Dependency
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.Metrics())
	e.Use(middleware.Session(deps.Sessions, deps.Cookie, deps.Log))

	e.StaticFS("/static", web.Static())

	// --- Pages ---
	pages := handler.NewPageHandler()
	e.GET("/", pages.Home)
	e.GET("/login", pages.Login)
	e.GET("/register", pages.Register)

	// --- Local auth ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions, deps.Cookie, deps.Log)
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.GET("/logout", authHandler.Logout)

	// --- OAuth ---
	if deps.Provider != nil {
		oauthHandler := handler.NewOAuthHandler(deps.Provider, deps.Auth, deps.Sessions, deps.Cookie, deps.Log)
		prefix := "/auth/" + deps.Provider.Name()
		e.GET(prefix, oauthHandler.Begin)
		e.GET(prefix+"/secrets", oauthHandler.Callback)
	}

	// --- Secrets (session required) ---
	secretHandler := handler.NewSecretHandler(deps.Secrets)
	requireAuth := middleware.RequireAuth()
	e.GET("/secrets", secretHandler.Show, requireAuth)
	e.GET("/submit", secretHandler.Form, requireAuth)
	e.POST("/submit", secretHandler.Submit, requireAuth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Ready...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
