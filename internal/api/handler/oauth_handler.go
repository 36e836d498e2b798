package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/api/metrics"
	"github.com/secretkeeper/secrets/internal/api/middleware"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
	stateSize       = 32
)

// OAuthHandler drives the authorization-code flow of one identity provider.
type OAuthHandler struct {
	provider    ports.IdentityProvider
	authService ports.AuthService
	starter     sessionStarter
	secure      bool
	log         zerolog.Logger
}

func NewOAuthHandler(provider ports.IdentityProvider, authService ports.AuthService, sessions ports.SessionService, cookie middleware.SessionCookie, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		provider:    provider,
		authService: authService,
		starter:     sessionStarter{sessions: sessions, cookie: cookie},
		secure:      cookie.Secure,
		log:         log,
	}
}

// Begin stores a fresh state value in a short-lived cookie and redirects to
// the provider's consent page.
func (h *OAuthHandler) Begin(c echo.Context) error {
	state := newState()
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback completes the flow. Any provider-side failure ends on the login page.
func (h *OAuthHandler) Callback(c echo.Context) error {
	strategy := h.provider.Name()
	saved := h.consumeState(c)

	if errParam := c.QueryParam("error"); errParam != "" {
		h.log.Warn().Str("provider", strategy).Str("error", errParam).Msg("provider denied sign-in")
		metrics.SignInsTotal.WithLabelValues(strategy, metrics.ResultProviderError).Inc()
		return c.Redirect(http.StatusFound, loginPath)
	}

	state := c.QueryParam("state")
	if saved == "" || state != saved {
		h.log.Warn().Str("provider", strategy).Msg("oauth state mismatch")
		metrics.SignInsTotal.WithLabelValues(strategy, metrics.ResultInvalidState).Inc()
		return c.Redirect(http.StatusFound, loginPath)
	}

	ctx := c.Request().Context()
	identity, err := h.provider.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		h.log.Error().Err(err).Str("provider", strategy).Msg("oauth exchange")
		metrics.SignInsTotal.WithLabelValues(strategy, metrics.ResultProviderError).Inc()
		return c.Redirect(http.StatusFound, loginPath)
	}

	user, err := h.authService.LoginWithProvider(ctx, identity)
	if err != nil {
		result := signInResult(err)
		metrics.SignInsTotal.WithLabelValues(strategy, result).Inc()
		if result == metrics.ResultStoreError {
			return err
		}
		return c.Redirect(http.StatusFound, loginPath)
	}

	metrics.SignInsTotal.WithLabelValues(strategy, metrics.ResultSuccess).Inc()
	return h.starter.start(c, user)
}

func (h *OAuthHandler) consumeState(c echo.Context) string {
	cookie, err := c.Cookie(stateCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
	})
	return cookie.Value
}

func newState() string {
	b := make([]byte, stateSize)

	// rand.Read never returns an error
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
