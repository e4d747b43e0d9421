// Package session exposes the browser's login cookies as an explicit value
// handed to every API call.
package session

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Session interface {
	Token() string
	Username() string
	// Clear forgets the token, for this request and for the browser.
	Clear()
}

type Cookies struct {
	TokenName    string
	UsernameName string
	Secure       bool
}

// CookieSession reads the session cookies of one request. Clear writes an
// expired cookie to the response.
type CookieSession struct {
	w        http.ResponseWriter
	names    Cookies
	token    string
	username string
	cleared  bool
}

func FromRequest(w http.ResponseWriter, r *http.Request, names Cookies) *CookieSession {
	return &CookieSession{
		w:        w,
		names:    names,
		token:    cookieValue(r, names.TokenName),
		username: cookieValue(r, names.UsernameName),
	}
}

func (s *CookieSession) Token() string    { return s.token }
func (s *CookieSession) Username() string { return s.username }
func (s *CookieSession) Cleared() bool    { return s.cleared }

func (s *CookieSession) Clear() {
	s.token = ""
	if s.cleared {
		return
	}
	s.cleared = true
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.names.TokenName,
		Value:    "",
		Path:     "/",
		Secure:   s.names.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// cookieValue returns the trimmed, unescaped cookie value. Browser code that
// writes these cookies URI-encodes them.
func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v := c.Value
	if dec, err := url.QueryUnescape(v); err == nil {
		v = dec
	}
	return strings.TrimSpace(v)
}

// Static is a fixed session, used by the CLI.
type Static struct {
	TokenValue    string
	UsernameValue string
}

func (s *Static) Token() string    { return s.TokenValue }
func (s *Static) Username() string { return s.UsernameValue }
func (s *Static) Clear()           { s.TokenValue = "" }

// Complete reports whether both the token and the username are present.
func Complete(s Session) bool {
	return s != nil && s.Token() != "" && s.Username() != ""
}
