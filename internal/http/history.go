package http

import (
	"errors"
	"fmt"
	"net/http"

	"ccbankdash/internal/dashboard"
	"ccbankdash/internal/http/middleware"
	"ccbankdash/internal/logging"
	"ccbankdash/internal/web"
)

// HistoryHandler serves /dashboard/{perPage}/{page}: the rolling balance and
// one page of transactions.
type HistoryHandler struct {
	pageBase
	API dashboard.API
}

type counterView struct {
	Value  string
	Loaded bool
	Bands  []dashboard.DigitBand
}

type pagerView struct {
	Error bool
	dashboard.Pagination
}

type historyContent struct {
	Title      string
	Counter    counterView
	Table      txTable
	Pager      pagerView
	ViewAllURL string
	ReturnTo   string
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, err := dashboard.ParseRoute(r.PathValue("perPage"), r.PathValue("page"))
	if err != nil {
		h.Nav.Go(w, r, err)
		return
	}

	sess := middleware.Session(r)
	if err := dashboard.Gate(sess, dashboard.HomeRedirect()); err != nil {
		h.Nav.Go(w, r, err)
		return
	}

	snap, err := dashboard.Load(r.Context(), h.API, sess, dashboard.Fetch{
		Balance:       true,
		Transactions:  true,
		Count:         true,
		StrictSession: true,
	})
	if err != nil {
		h.Nav.Go(w, r, err)
		return
	}

	var pager pagerView
	p, err := dashboard.Paginate(route.Page, route.PerPage, totalItems(snap))
	switch {
	case errors.Is(err, dashboard.ErrNegativeTotal):
		logging.From(r.Context()).Error("dashboard.pagination", "err", err, "total", snap.Count.Total)
		pager.Error = true
	case err != nil:
		h.Nav.Go(w, r, err)
		return
	default:
		pager.Pagination = p
	}

	header := h.loadHeader(w, r)
	content := historyContent{
		Title: "Dashboard",
		Counter: counterView{
			Value:  snap.Balance.String(),
			Loaded: snap.BalanceLoaded,
			Bands:  dashboard.RollDigits(snap.Balance, snap.BalanceLoaded),
		},
		Table: txTable{
			Caption:  fmt.Sprintf("Page %d, %d per page", route.Page, route.PerPage),
			ShowDate: true,
			Rows:     dashboard.PageWindow(snap.Transactions, route.Page, route.PerPage),
		},
		Pager:      pager,
		ViewAllURL: "/dashboard",
		ReturnTo:   route.Path(),
	}
	h.render(w, r, "history", web.Page[historyContent]{Header: header, Content: content})
}

// totalItems prefers the API's own count and falls back to the length of the
// list it returned.
func totalItems(s dashboard.Snapshot) int64 {
	if s.CountLoaded && s.Count.Known {
		return s.Count.Total
	}
	return int64(len(s.Transactions))
}
