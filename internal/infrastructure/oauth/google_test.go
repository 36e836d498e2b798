package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

type fakeGoogle struct {
	tokenStatus    int
	userInfoStatus int
	userInfo       map[string]any
}

func (f *fakeGoogle) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "good-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		if f.userInfoStatus != 0 {
			w.WriteHeader(f.userInfoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogle(srv *httptest.Server) *Google {
	return NewGoogle(GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/auth/google/secrets",
		UserInfoURL:  srv.URL + "/userinfo",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	})
}

func TestGoogle_AuthCodeURL(t *testing.T) {
	g := NewGoogle(GoogleConfig{ClientID: "client-id", RedirectURL: "http://localhost:3000/auth/google/secrets"})

	u, err := url.Parse(g.AuthCodeURL("state-1"))
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)

	q := u.Query()
	require.Equal(t, "state-1", q.Get("state"))
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "profile email", q.Get("scope"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "http://localhost:3000/auth/google/secrets", q.Get("redirect_uri"))
}

func TestGoogle_Exchange(t *testing.T) {
	fake := &fakeGoogle{userInfo: map[string]any{
		"sub":            "1234",
		"email":          "a@x.com",
		"email_verified": true,
		"name":           "Alice",
	}}
	g := newTestGoogle(fake.server(t))

	id, err := g.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	require.Equal(t, domain.ProviderIdentity{
		Provider:      GoogleProvider,
		Subject:       "1234",
		Email:         "a@x.com",
		EmailVerified: true,
		Name:          "Alice",
	}, id)
}

func TestGoogle_Exchange_TokenRejected(t *testing.T) {
	fake := &fakeGoogle{tokenStatus: http.StatusBadRequest}
	g := newTestGoogle(fake.server(t))

	_, err := g.Exchange(context.Background(), "bad-code")
	require.ErrorIs(t, err, domain.ErrProvider)
}

func TestGoogle_Exchange_UserInfoFailure(t *testing.T) {
	fake := &fakeGoogle{userInfoStatus: http.StatusUnauthorized}
	g := newTestGoogle(fake.server(t))

	_, err := g.Exchange(context.Background(), "good-code")
	require.ErrorIs(t, err, domain.ErrProvider)
}
