package http

import (
	"net/http"

	"ccbankdash/internal/bankapi"
	"ccbankdash/internal/dashboard"
	"ccbankdash/internal/http/middleware"
	"ccbankdash/internal/web"

	"github.com/shopspring/decimal"
)

// DashboardHandler serves /dashboard: username, balance, the create form and
// the full transaction list.
type DashboardHandler struct {
	pageBase
	API dashboard.API
}

type txTable struct {
	Caption  string
	ShowDate bool
	Rows     []bankapi.Transaction
}

type dashboardContent struct {
	Title         string
	Username      string
	Balance       decimal.Decimal
	BalanceLoaded bool
	ReturnTo      string
	Table         txTable
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := middleware.Session(r)
	if err := dashboard.Gate(sess, dashboard.LoginRedirect(h.LoginURL)); err != nil {
		h.Nav.Go(w, r, err)
		return
	}

	snap, err := dashboard.Load(r.Context(), h.API, sess, dashboard.Fetch{Balance: true, Transactions: true})
	if err != nil {
		h.Nav.Go(w, r, err)
		return
	}

	header := h.loadHeader(w, r)
	content := dashboardContent{
		Title:         "Dashboard",
		Username:      sess.Username(),
		Balance:       snap.Balance,
		BalanceLoaded: snap.BalanceLoaded,
		ReturnTo:      "/dashboard",
		Table: txTable{
			Caption: "A list of your recent transactions.",
			Rows:    snap.Transactions,
		},
	}
	h.render(w, r, "dashboard", web.Page[dashboardContent]{Header: header, Content: content})
}
