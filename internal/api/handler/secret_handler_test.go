package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

type stubSecretService struct {
	viewFn    func(ctx context.Context, user *domain.User) (string, error)
	submitted []string
	submitErr error
}

func (s *stubSecretService) View(ctx context.Context, user *domain.User) (string, error) {
	return s.viewFn(ctx, user)
}

func (s *stubSecretService) Submit(_ context.Context, _ *domain.User, secret string) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, secret)
	return nil
}

// recordingRenderer captures the page and data instead of executing templates.
type recordingRenderer struct {
	page string
	data any
}

func (r *recordingRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	r.page, r.data = name, data
	_, err := fmt.Fprintf(w, "%s:%v", name, data)
	return err
}

func authed(c echo.Context, user *domain.User) echo.Context {
	c.Set("user", user)
	return c
}

func TestSecretHandler_Show(t *testing.T) {
	e := newTestEcho()
	renderer := &recordingRenderer{}
	e.Renderer = renderer
	svc := &stubSecretService{
		viewFn: func(_ context.Context, user *domain.User) (string, error) {
			if user.Email != "a@x.com" {
				t.Fatalf("unexpected user %+v", user)
			}
			return "my secret", nil
		},
	}
	h := NewSecretHandler(svc)

	rec := httptest.NewRecorder()
	c := authed(e.NewContext(httptest.NewRequest(http.MethodGet, "/secrets", nil), rec), &domain.User{Email: "a@x.com"})
	if err := h.Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view, ok := renderer.data.(secretsView)
	if renderer.page != "secrets" || !ok || view.Secret != "my secret" {
		t.Fatalf("unexpected render: %s %+v", renderer.page, renderer.data)
	}
}

func TestSecretHandler_Show_Anonymous(t *testing.T) {
	e := newTestEcho()
	h := NewSecretHandler(&stubSecretService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/secrets", nil), httptest.NewRecorder())
	if err := h.Show(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSecretHandler_Form(t *testing.T) {
	e := newTestEcho()
	renderer := &recordingRenderer{}
	e.Renderer = renderer
	h := NewSecretHandler(&stubSecretService{})

	rec := httptest.NewRecorder()
	c := authed(e.NewContext(httptest.NewRequest(http.MethodGet, "/submit", nil), rec), &domain.User{Email: "a@x.com"})
	if err := h.Form(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if renderer.page != "submit" {
		t.Fatalf("expected submit page, got %s", renderer.page)
	}
}

func TestSecretHandler_Submit(t *testing.T) {
	e := newTestEcho()
	svc := &stubSecretService{}
	h := NewSecretHandler(svc)

	for _, secret := range []string{"first", ""} {
		req := formRequest(http.MethodPost, "/submit", url.Values{"secret": {secret}})
		rec := httptest.NewRecorder()
		c := authed(e.NewContext(req, rec), &domain.User{Email: "a@x.com"})
		if err := h.Submit(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		assertRedirect(t, rec, "/secrets")
	}

	if len(svc.submitted) != 2 || svc.submitted[0] != "first" || svc.submitted[1] != "" {
		t.Fatalf("unexpected submissions %q", svc.submitted)
	}
}

func TestSecretHandler_Submit_StoreFailure(t *testing.T) {
	e := newTestEcho()
	h := NewSecretHandler(&stubSecretService{submitErr: domain.ErrStoreUnavailable})

	req := formRequest(http.MethodPost, "/submit", url.Values{"secret": {"x"}})
	c := authed(e.NewContext(req, httptest.NewRecorder()), &domain.User{Email: "a@x.com"})
	if err := h.Submit(c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSecretHandler_Submit_Anonymous(t *testing.T) {
	e := newTestEcho()
	svc := &stubSecretService{}
	h := NewSecretHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBufferString("secret=x"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if err := h.Submit(e.NewContext(req, httptest.NewRecorder())); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(svc.submitted) != 0 {
		t.Fatalf("nothing should be stored")
	}
}
