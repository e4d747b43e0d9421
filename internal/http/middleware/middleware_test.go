package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ccbankdash/internal/logging"
	"ccbankdash/internal/session"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("a"); !ok {
			t.Fatalf("request %d denied", i+1)
		}
	}
	now = now.Add(20 * time.Second)
	ok, wait := rl.Allow("a")
	if ok || wait != 40*time.Second {
		t.Fatalf("third request: ok=%v wait=%v", ok, wait)
	}
	if ok, _ := rl.Allow("b"); !ok {
		t.Fatal("other key denied")
	}

	now = now.Add(40 * time.Second)
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("request after window denied")
	}
}

func TestRateLimiterEvictsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second)
	rl.now = func() time.Time { return now }
	for i := 0; i < 1024; i++ {
		rl.Allow(SessionKey(string(rune('a' + i%26)) + time.Duration(i).String()))
	}
	now = now.Add(time.Second)
	rl.Allow("fresh")
	if n := len(rl.buckets); n != 1 {
		t.Fatalf("buckets = %d, want 1", n)
	}
}

func TestNilRateLimiterAllows(t *testing.T) {
	var rl *RateLimiter
	if ok, _ := rl.Allow("x"); !ok {
		t.Fatal("nil limiter denied")
	}
}

func TestSessionKey(t *testing.T) {
	if SessionKey(" Alice ") != SessionKey("alice") {
		t.Error("keys differ by case or spacing")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "1.2.3.4:5", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "1.2.3.4:5", "10.0.0.9"},
		{"remote", nil, "1.2.3.4:5", "1.2.3.4"},
		{"remote no port", nil, "1.2.3.4", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithSession(t *testing.T) {
	var got session.Session
	h := WithSession(session.Cookies{TokenName: "session_token", UsernameName: "username"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = Session(r) }))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session_token", Value: "tok"})
	r.AddCookie(&http.Cookie{Name: "username", Value: "alice"})
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.Token() != "tok" || got.Username() != "alice" {
		t.Fatalf("session = %#v", got)
	}
}

func TestSessionOutsideMiddleware(t *testing.T) {
	if s := Session(httptest.NewRequest(http.MethodGet, "/", nil)); s != nil {
		t.Fatalf("session = %#v, want nil", s)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || w.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("generated id %q, header %q", seen, w.Header().Get(RequestIDHeader))
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "abc-123" {
		t.Fatalf("incoming id not reused: %q", seen)
	}
}
