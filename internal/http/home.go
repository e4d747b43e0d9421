package http

import (
	"net/http"

	"ccbankdash/internal/web"
)

type HomeHandler struct {
	pageBase
}

type homeContent struct {
	Title       string
	Description string
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	header := h.loadHeader(w, r)
	content := homeContent{
		Title:       "Welcome to CC Bank",
		Description: "Check your balance, browse your transactions and send money to other users.",
	}
	h.render(w, r, "home", web.Page[homeContent]{Header: header, Content: content})
}
