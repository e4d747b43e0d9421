package http

import (
	"net/http"

	"ccbankdash/internal/dashboard"
	"ccbankdash/internal/flash"
	"ccbankdash/internal/http/middleware"
	"ccbankdash/internal/logging"
)

// Navigator is the one place that turns a dashboard decision into a browser
// navigation: it clears the session, stores the toast and redirects.
type Navigator struct {
	Flash *flash.Signer
}

// Go handles err, which is normally a *dashboard.Redirect. Any other error
// becomes a 500.
func (n *Navigator) Go(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.From(r.Context())
	red, ok := dashboard.AsRedirect(err)
	if !ok {
		log.Error("http.unhandled", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if red.ClearSession {
		if s := middleware.Session(r); s != nil {
			s.Clear()
		}
	}
	if red.Toast != "" && n.Flash != nil {
		if err := n.Flash.Set(w, flash.Toast{Kind: red.ToastKind, Message: red.Toast}); err != nil {
			log.Warn("http.flash_set", "err", err)
		}
	}
	log.Info("http.redirect", "to", red.To, "reason", red.Reason)
	http.Redirect(w, r, red.To, http.StatusSeeOther)
}
