package bankapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any StatusError whose code says the session token
// was rejected.
var ErrUnauthorized = errors.New("bankapi: session rejected")

// ErrNoSession is returned before any request is made when the session has
// no token.
var ErrNoSession = errors.New("bankapi: no session token")

// StatusError reports a non-2xx response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bankapi %s: status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("bankapi %s: status %d: %s", e.Op, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden)
}

// IsStatus reports whether err carries an API status error.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
