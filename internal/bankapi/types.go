package bankapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Session carries the credentials attached to every API call.
type Session interface {
	Token() string
	Username() string
}

// Transaction is the one shape the rest of the service sees, whatever the
// upstream record looked like.
type Transaction struct {
	ID           int64
	From         string
	To           string
	Counterparty string    // the other party, seen from the session user
	Date         time.Time // zero when the record had no date
	Amount       decimal.Decimal
}

// NewTransaction is the payload of POST /api/v1/transactions/new. Amount is
// forwarded exactly as typed.
type NewTransaction struct {
	Username string `json:"username"`
	Amount   string `json:"amount"`
}

// Count is the decoded transactions/count response. Known is false when the
// body carried no recognisable total.
type Count struct {
	Total int64
	Known bool
	Raw   map[string]any
}

// wireTransaction accepts both record shapes the API has served:
// {id, from_user, to_user, amount:number} and {date, user, amount:string}.
type wireTransaction struct {
	ID       *int64          `json:"id"`
	FromUser string          `json:"from_user"`
	ToUser   string          `json:"to_user"`
	User     string          `json:"user"`
	Date     json.RawMessage `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}

func (w wireTransaction) toTransaction(viewer string) Transaction {
	t := Transaction{
		From:   w.FromUser,
		To:     w.ToUser,
		Date:   parseDate(w.Date),
		Amount: w.Amount,
	}
	if w.ID != nil {
		t.ID = *w.ID
	}
	switch {
	case w.User != "":
		t.Counterparty = w.User
		if t.To == "" {
			t.To = w.User
		}
	case viewer != "" && strings.EqualFold(w.FromUser, viewer):
		t.Counterparty = w.ToUser
	case viewer != "" && strings.EqualFold(w.ToUser, viewer):
		t.Counterparty = w.FromUser
	default:
		t.Counterparty = w.ToUser
	}
	return t
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate understands ISO strings and unix timestamps (seconds or
// milliseconds). Anything else yields the zero time.
func parseDate(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
		return time.Time{}
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}
	}
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}

func decodeCount(raw []byte) (Count, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Count{}, err
	}
	var c Count
	switch t := v.(type) {
	case map[string]any:
		c.Raw = t
		for _, k := range []string{"count", "total", "transactions"} {
			if n, ok := asInt(t[k]); ok {
				c.Total, c.Known = n, true
				break
			}
		}
	default:
		c.Total, c.Known = asInt(t)
	}
	return c, nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}
