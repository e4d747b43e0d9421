package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/shopspring/decimal"
)

//go:embed tpl/**/*.tmpl
//go:embed tpl/*.tmpl
var tplFS embed.FS

// Renderer holds one parsed template set per page, each sharing the base
// layout and the partials.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"nowUTC":     func() time.Time { return time.Now().UTC() },
		"amount":     formatAmount,
		"shortDate":  formatDate,
		"bandOffset": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	}
	base, err := template.New("root").Funcs(sprig.FuncMap()).Funcs(funcs).
		ParseFS(tplFS, "tpl/base.tmpl", "tpl/partials/*.tmpl")
	if err != nil {
		return nil, err
	}

	names, err := fs.Glob(tplFS, "tpl/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, p := range names {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(tplFS, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[strings.TrimSuffix(path.Base(p), ".tmpl")] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, name, data)
}

func formatAmount(d decimal.Decimal) string {
	return d.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("2006-01-02")
}
