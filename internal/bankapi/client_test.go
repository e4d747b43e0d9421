package bankapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ccbankdash/internal/logging"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

type testSession struct{ token, user string }

func (s testSession) Token() string    { return s.token }
func (s testSession) Username() string { return s.user }

// newAPI starts a fake banking API that checks the session header on every
// request and serves routes from the given map.
func newAPI(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		h := h
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(SessionHeader) != "tok" {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			h(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBalance(t *testing.T) {
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/balance": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "204.5")
		},
	})
	c := New(srv.URL, time.Second, srv.Client())

	got, err := c.Balance(context.Background(), testSession{"tok", "alice"})
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("204.5")) {
		t.Errorf("balance = %s", got)
	}
}

func TestBalanceRejectedSession(t *testing.T) {
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/balance": func(w http.ResponseWriter, r *http.Request) {},
	})
	c := New(srv.URL, time.Second, srv.Client())

	_, err := c.Balance(context.Background(), testSession{"wrong", "alice"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized || se.Op != "balance" {
		t.Fatalf("status error = %+v", se)
	}
}

func TestServerErrorIsNotUnauthorized(t *testing.T) {
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/balance": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	c := New(srv.URL, time.Second, srv.Client())

	_, err := c.Balance(context.Background(), testSession{"tok", "alice"})
	if err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	if !IsStatus(err) {
		t.Fatalf("expected status error, got %T", err)
	}
}

func TestNoSessionSkipsRequest(t *testing.T) {
	called := false
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/balance": func(w http.ResponseWriter, r *http.Request) { called = true },
	})
	c := New(srv.URL, time.Second, srv.Client())

	if _, err := c.Balance(context.Background(), testSession{"", "alice"}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v", err)
	}
	if called {
		t.Fatal("API was called without a token")
	}
}

func TestTransactionsBothShapes(t *testing.T) {
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/transactions/list": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `[
				{"id": 1, "from_user": "alice", "to_user": "bob", "amount": 12.5},
				{"id": 2, "from_user": "carol", "to_user": "alice", "amount": 3},
				{"date": "2024-03-01T10:00:00Z", "user": "dave", "amount": "7.25"}
			]`)
		},
	})
	c := New(srv.URL, time.Second, srv.Client())

	got, err := c.Transactions(context.Background(), testSession{"tok", "alice"})
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	want := []Transaction{
		{ID: 1, From: "alice", To: "bob", Counterparty: "bob", Amount: decimal.RequireFromString("12.5")},
		{ID: 2, From: "carol", To: "alice", Counterparty: "carol", Amount: decimal.NewFromInt(3)},
		{To: "dave", Counterparty: "dave", Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("7.25")},
	}
	opt := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, opt); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionsDecodeError(t *testing.T) {
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/transactions/list": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"not":"a list"}`)
		},
	})
	c := New(srv.URL, time.Second, srv.Client())

	if _, err := c.Transactions(context.Background(), testSession{"tok", "alice"}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTransactionCount(t *testing.T) {
	tests := []struct {
		body  string
		total int64
		known bool
	}{
		{`{"count": 100}`, 100, true},
		{`{"total": "42"}`, 42, true},
		{`17`, 17, true},
		{`{"something": "else"}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			srv := newAPI(t, map[string]http.HandlerFunc{
				"GET /api/v1/transactions/count": func(w http.ResponseWriter, r *http.Request) {
					_, _ = io.WriteString(w, tt.body)
				},
			})
			c := New(srv.URL, time.Second, srv.Client())
			got, err := c.TransactionCount(context.Background(), testSession{"tok", "alice"})
			if err != nil {
				t.Fatalf("TransactionCount: %v", err)
			}
			if got.Total != tt.total || got.Known != tt.known {
				t.Errorf("count = %+v", got)
			}
		})
	}
}

func TestCreateTransactionSendsStringAmount(t *testing.T) {
	var gotBody map[string]any
	var gotReqID string
	srv := newAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/transactions/new": func(w http.ResponseWriter, r *http.Request) {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
			gotReqID = r.Header.Get("X-Request-ID")
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode: %v", err)
			}
			_, _ = io.WriteString(w, `{"ok":true}`)
		},
	})
	c := New(srv.URL, time.Second, srv.Client())

	ctx := logging.WithRequestID(context.Background(), "req-9")
	resp, err := c.CreateTransaction(ctx, testSession{"tok", "alice"}, NewTransaction{Username: "bob", Amount: "10"})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if resp != `{"ok":true}` {
		t.Errorf("response = %q", resp)
	}
	want := map[string]any{"username": "bob", "amount": "10"}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if gotReqID != "req-9" {
		t.Errorf("request id = %q", gotReqID)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/balance": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
	})
	defer close(release)
	c := New(srv.URL, 50*time.Millisecond, srv.Client())

	_, err := c.Balance(context.Background(), testSession{"tok", "alice"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
