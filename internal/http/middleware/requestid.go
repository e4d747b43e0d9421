package middleware

import (
	"net/http"
	"strings"

	"ccbankdash/internal/logging"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags the request with an id, reusing a sane incoming one, and
// puts a logger carrying it into the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)
		ctx = logging.With(ctx, "request_id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
