package web

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type titled struct {
	Title       string
	Description string
}

func TestRenderHome(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var buf bytes.Buffer
	err = r.Render(&buf, "home", Page[titled]{
		Header:  HeaderData{LoginURL: "/login", Toast: &Toast{Kind: "success", Message: "<b>hi</b>"}},
		Content: titled{Title: "Welcome", Description: "desc"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<title>Welcome · CC Bank</title>", "toast-success", "&lt;b&gt;hi&lt;/b&gt;", `href="/login"`, "/static/dashboard.css"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if !strings.Contains(out, "© "+time.Now().UTC().Format("2006")) {
		t.Error("footer year missing")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(&bytes.Buffer{}, "nope", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestFormatters(t *testing.T) {
	if got := formatAmount(decimal.RequireFromString("10.50")); got != "10.5" {
		t.Errorf("formatAmount = %q", got)
	}
	if got := formatDate(time.Time{}); got != "—" {
		t.Errorf("formatDate(zero) = %q", got)
	}
	d := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	if got := formatDate(d); got != "2024-03-01" {
		t.Errorf("formatDate = %q", got)
	}
}
