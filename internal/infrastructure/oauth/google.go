// Package oauth implements the external identity providers used for sign-in.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

const (
	GoogleProvider = "google"

	googleScopeEmail   = "email"
	googleScopeProfile = "profile"

	DefaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleConfig holds the configuration for the Google OAuth2 provider.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UserInfoURL  string
	// Endpoint overrides the Google endpoints; zero means endpoints.Google.
	Endpoint oauth2.Endpoint
}

// Google implements ports.IdentityProvider for Google accounts.
type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func NewGoogle(c GoogleConfig) *Google {
	endpoint := c.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = endpoints.Google
	}
	userInfoURL := c.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultGoogleUserInfoURL
	}

	return &Google{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{googleScopeProfile, googleScopeEmail},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

func (g *Google) Name() string {
	return GoogleProvider
}

// AuthCodeURL returns the consent page URL carrying state.
func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and reads the profile
// from the userinfo endpoint.
func (g *Google) Exchange(ctx context.Context, code string) (domain.ProviderIdentity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return domain.ProviderIdentity{}, fmt.Errorf("%w: exchange code: %w", domain.ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return domain.ProviderIdentity{}, fmt.Errorf("%w: build userinfo request: %w", domain.ErrProvider, err)
	}

	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return domain.ProviderIdentity{}, fmt.Errorf("%w: fetch userinfo: %w", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ProviderIdentity{}, fmt.Errorf("%w: userinfo status %d", domain.ErrProvider, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ProviderIdentity{}, fmt.Errorf("%w: decode userinfo: %w", domain.ErrProvider, err)
	}

	return domain.ProviderIdentity{
		Provider:      GoogleProvider,
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
	}, nil
}
