package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ccbankdash/internal/logging"

	"github.com/shopspring/decimal"
)

const (
	SessionHeader = "Session-Token"

	balancePath  = "/api/v1/balance"
	listPath     = "/api/v1/transactions/list"
	newPath      = "/api/v1/transactions/new"
	countPath    = "/api/v1/transactions/count"
	maxBodyBytes = 4 << 20
)

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New builds a client for the API rooted at baseURL. A zero timeout leaves
// calls bounded only by the caller's context.
func New(baseURL string, timeout time.Duration, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    hc,
	}
}

func (c *Client) Balance(ctx context.Context, s Session) (decimal.Decimal, error) {
	var bal decimal.Decimal
	if err := c.do(ctx, "balance", http.MethodGet, balancePath, s, nil, &bal); err != nil {
		return decimal.Zero, err
	}
	return bal, nil
}

func (c *Client) Transactions(ctx context.Context, s Session) ([]Transaction, error) {
	var raw []wireTransaction
	if err := c.do(ctx, "transactions.list", http.MethodGet, listPath, s, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]Transaction, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toTransaction(s.Username()))
	}
	return out, nil
}

func (c *Client) TransactionCount(ctx context.Context, s Session) (Count, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "transactions.count", http.MethodGet, countPath, s, nil, &raw); err != nil {
		return Count{}, err
	}
	cnt, err := decodeCount(raw)
	if err != nil {
		return Count{}, fmt.Errorf("bankapi transactions.count: decode: %w", err)
	}
	return cnt, nil
}

// CreateTransaction posts tx and returns the raw response body, whose shape
// the API does not document.
func (c *Client) CreateTransaction(ctx context.Context, s Session, tx NewTransaction) (string, error) {
	var raw rawBody
	if err := c.do(ctx, "transactions.new", http.MethodPost, newPath, s, tx, &raw); err != nil {
		return "", err
	}
	return string(raw), nil
}

// rawBody captures a response without decoding it.
type rawBody []byte

func (c *Client) do(ctx context.Context, op, method, path string, s Session, in, out any) error {
	if s == nil || s.Token() == "" {
		return ErrNoSession
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("bankapi %s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("bankapi %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(SessionHeader, s.Token())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logging.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bankapi %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	logging.From(ctx).Debug("bankapi.call",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("bankapi %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Code: resp.StatusCode, Body: snippet(raw)}
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *rawBody:
		*dst = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("bankapi %s: decode: %w", op, err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}
