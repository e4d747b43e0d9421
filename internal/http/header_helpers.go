package http

import (
	"bytes"
	"net/http"

	"ccbankdash/internal/http/middleware"
	"ccbankdash/internal/logging"
	"ccbankdash/internal/session"
	"ccbankdash/internal/web"
)

type pageBase struct {
	TPL      *web.Renderer
	Nav      *Navigator
	LoginURL string
}

// loadHeader builds the shared header and consumes any pending toast.
func (p pageBase) loadHeader(w http.ResponseWriter, r *http.Request) web.HeaderData {
	header := web.HeaderData{LoginURL: p.LoginURL}
	if s := middleware.Session(r); session.Complete(s) {
		header.LoggedIn = true
		header.Username = s.Username()
	}
	if p.Nav != nil && p.Nav.Flash != nil {
		if t, ok := p.Nav.Flash.Pop(w, r); ok {
			header.Toast = &web.Toast{Kind: t.Kind, Message: t.Message}
		}
	}
	return header
}

func (p pageBase) render(w http.ResponseWriter, r *http.Request, name string, page any) {
	var buf bytes.Buffer
	if err := p.TPL.Render(&buf, name, page); err != nil {
		logging.From(r.Context()).Error("could not render", "page", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
