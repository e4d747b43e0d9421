package dashboard

import (
	"errors"
	"strings"

	"ccbankdash/internal/session"
)

const DefaultRoute = "/dashboard/15/1"

const (
	ReasonNoSession      = "no_session"
	ReasonInvalidSession = "invalid_session"
	ReasonBadRoute       = "bad_route"
	ReasonSubmitted      = "submitted"
)

const (
	ToastError   = "error"
	ToastSuccess = "success"
)

const (
	msgNotLoggedIn    = "You are not logged in. Redirecting to home page."
	msgInvalidSession = "Invalid session token. Please log in again. This happens when you log in from somewhere else"
)

// Redirect is an error that resolves to a browser navigation instead of an
// error page. The HTTP layer turns it into a flash cookie and a Location.
type Redirect struct {
	To           string
	Reason       string
	Toast        string
	ToastKind    string
	ClearSession bool
}

func (r *Redirect) Error() string {
	return "redirect to " + r.To + " (" + r.Reason + ")"
}

// AsRedirect unwraps a *Redirect from err.
func AsRedirect(err error) (*Redirect, bool) {
	var r *Redirect
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// LoginRedirect is the gate outcome of the plain dashboard.
func LoginRedirect(loginURL string) Redirect {
	return Redirect{To: loginURL}
}

// HomeRedirect is the gate outcome of the paginated dashboard.
func HomeRedirect() Redirect {
	return Redirect{To: "/", Toast: msgNotLoggedIn, ToastKind: ToastError}
}

// Gate returns onMissing as an error unless s carries both a token and a
// username.
func Gate(s session.Session, onMissing Redirect) error {
	if session.Complete(s) {
		return nil
	}
	r := onMissing
	r.Reason = ReasonNoSession
	return &r
}

func invalidSession() *Redirect {
	return &Redirect{
		To:           "/",
		Reason:       ReasonInvalidSession,
		Toast:        msgInvalidSession,
		ToastKind:    ToastError,
		ClearSession: true,
	}
}

// SafeReturn keeps post-submit redirects on the dashboard.
func SafeReturn(path string) string {
	if path == "/dashboard" || (strings.HasPrefix(path, "/dashboard/") && !strings.Contains(path, "//")) {
		return path
	}
	return "/dashboard"
}
