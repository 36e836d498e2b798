// Package web embeds the HTML views and static assets served by the app.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// Page names accepted by Renderer.
const (
	PageHome     = "home"
	PageLogin    = "login"
	PageRegister = "register"
	PageSecrets  = "secrets"
	PageSubmit   = "submit"
	PageError    = "error"
)

var pages = []string{PageHome, PageLogin, PageRegister, PageSecrets, PageSubmit, PageError}

// Renderer implements echo.Renderer over the embedded templates. Each page is
// parsed together with the shared layout partials.
type Renderer struct {
	views map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{views: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.ParseFS(templates, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.views[page] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.views[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "page", data)
}

// Static returns the asset tree rooted at the static directory.
func Static() fs.FS {
	return echo.MustSubFS(static, "static")
}
