package http

import (
	"fmt"
	"math"
	"net/http"

	"ccbankdash/internal/bankapi"
	"ccbankdash/internal/dashboard"
	"ccbankdash/internal/http/middleware"
)

// TransactionCreateHandler accepts the create-transaction form and always
// answers with a redirect back to the dashboard page it came from.
type TransactionCreateHandler struct {
	API      dashboard.Submitter
	Nav      *Navigator
	LoginURL string
	Limiter  *middleware.RateLimiter
}

func (h *TransactionCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Nav.Go(w, r, &dashboard.Redirect{
			To:        "/dashboard",
			Reason:    "bad_form",
			Toast:     "Could not read the form.",
			ToastKind: dashboard.ToastError,
		})
		return
	}
	returnTo := dashboard.SafeReturn(r.Form.Get("return"))

	sess := middleware.Session(r)
	if err := dashboard.Gate(sess, dashboard.LoginRedirect(h.LoginURL)); err != nil {
		h.Nav.Go(w, r, err)
		return
	}

	if ok, wait := h.Limiter.Allow(middleware.SessionKey(sess.Username())); !ok {
		h.Nav.Go(w, r, &dashboard.Redirect{
			To:        returnTo,
			Reason:    "rate_limited",
			Toast:     fmt.Sprintf("Too many transactions, try again in %ds.", int(math.Ceil(wait.Seconds()))),
			ToastKind: dashboard.ToastError,
		})
		return
	}

	tx := bankapi.NewTransaction{
		Username: r.Form.Get("targetUsername"),
		Amount:   r.Form.Get("amount"),
	}
	h.Nav.Go(w, r, dashboard.Submit(r.Context(), h.API, sess, tx, returnTo))
}
