package middleware

import (
	"context"
	"net/http"

	"ccbankdash/internal/session"
)

type ctxKey string

const ctxSession ctxKey = "session"

// WithSession reads the login cookies once per request and exposes them to
// handlers through Session.
func WithSession(names session.Cookies, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromRequest(w, r, names)
		ctx := context.WithValue(r.Context(), ctxSession, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Session returns the request's session, or nil outside WithSession.
func Session(r *http.Request) session.Session {
	if s, ok := r.Context().Value(ctxSession).(*session.CookieSession); ok && s != nil {
		return s
	}
	return nil
}
