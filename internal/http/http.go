package http

import (
	"net/http"
	"time"

	"ccbankdash/internal/dashboard"
	"ccbankdash/internal/flash"
	"ccbankdash/internal/http/middleware"
	"ccbankdash/internal/logging"
	"ccbankdash/internal/session"
	"ccbankdash/internal/web"
	"ccbankdash/resources"
)

// BankAPI is everything the handlers need from the banking API client.
type BankAPI interface {
	dashboard.API
	dashboard.Submitter
}

type Deps struct {
	API           BankAPI
	Flash         *flash.Signer
	LoginURL      string
	PerPage       int
	SubmitLimiter *middleware.RateLimiter
}

func NewMux(d Deps) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	rend, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	if d.PerPage < 1 {
		d.PerPage = 15
	}
	nav := &Navigator{Flash: d.Flash}
	pages := pageBase{TPL: rend, Nav: nav, LoginURL: d.LoginURL}

	mux.Handle("GET /{$}", &HomeHandler{pageBase: pages})
	mux.Handle("GET /dashboard", &DashboardHandler{pageBase: pages, API: d.API})
	mux.Handle("GET /dashboard/{perPage}/{page}", &HistoryHandler{pageBase: pages, API: d.API})
	mux.Handle("POST /dashboard/transactions", &TransactionCreateHandler{
		API:      d.API,
		Nav:      nav,
		LoginURL: d.LoginURL,
		Limiter:  d.SubmitLimiter,
	})
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(resources.Static())))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return mux, nil
}

func WithStandardMiddleware(cookies session.Cookies, next http.Handler) http.Handler {
	return middleware.RequestID(requestLogger(securityHeaders(middleware.WithSession(cookies, next))))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &wrapWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		logging.From(r.Context()).Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"ip", middleware.ClientIP(r),
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type wrapWriter struct {
	http.ResponseWriter
	status int
}

func (w *wrapWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
