// Package view renders the portal's HTML pages from embedded templates.
//
// Every page under templates/pages is parsed on top of its own clone of
// templates/layout.html, so pages can each define "content" without
// clashing.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/authapp/portal/internal/core/domain"
)

//go:embed templates
var templateFS embed.FS

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

var funcMap = template.FuncMap{
	"roleLabel": roleLabel,
	"roleClass": func(r domain.Role) string { return "role-" + string(r) },
	"orDash": func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	},
}

// NewRenderer parses every embedded page.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.ReadDir(templateFS, "templates/pages")
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		page, err := clone.ParseFS(templateFS, "templates/pages/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", e.Name(), err)
		}
		r.pages[strings.TrimSuffix(e.Name(), ".html")] = page
	}
	return r, nil
}

// Render executes the layout with the named page's content.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func roleLabel(r domain.Role) string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
