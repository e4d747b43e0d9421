// Package flash carries one-shot toast messages across a redirect in a
// signed cookie.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "flash"
	ttl        = 2 * time.Minute
)

type Toast struct {
	Kind    string // "error" | "success"
	Message string
}

type claims struct {
	Kind    string `json:"kind"`
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	secure bool
}

func NewSigner(secret string, secureCookies bool) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("flash secret not set")
	}
	return &Signer{secret: []byte(secret), secure: secureCookies}, nil
}

func (s *Signer) Issue(t Toast) (string, error) {
	now := time.Now()
	c := claims{
		Kind:    t.Kind,
		Message: t.Message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Signer) Parse(tok string) (Toast, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tok, &c, func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Toast{}, errors.New("invalid flash token")
	}
	return Toast{Kind: c.Kind, Message: c.Message}, nil
}

// Set stores t for the next page the browser loads.
func (s *Signer) Set(w http.ResponseWriter, t Toast) error {
	tok, err := s.Issue(t)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
	return nil
}

// Pop returns the pending toast, if any, and deletes the cookie. Tampered or
// expired cookies are dropped silently.
func (s *Signer) Pop(w http.ResponseWriter, r *http.Request) (Toast, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Toast{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	t, err := s.Parse(c.Value)
	if err != nil {
		return Toast{}, false
	}
	return t, true
}
