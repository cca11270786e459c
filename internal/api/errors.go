package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches StatusError values for 404 responses.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from the remote API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// clientFault reports whether err is a 4xx response. Those say nothing about
// the health of the remote and do not trip the breaker.
func clientFault(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
	}
	return false
}
