package ledger

import (
	"errors"
	"fmt"
)

// transportError wraps a network-level failure (connect, timeout, body read).
type transportError struct {
	method string
	path   string
	err    error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.method, e.path, e.err)
}

func (e *transportError) Unwrap() error { return e.err }

// apiError wraps a non-success status or an explicit error field in the
// response body.
type apiError struct {
	method  string
	path    string
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("ledger %s %s: status %d: %s", e.method, e.path, e.status, e.message)
}

// isRetryable reports whether a Search failure is safe and worth retrying:
// transport errors and server-side 5xx responses. Application errors and
// client-side 4xx are deterministic and propagate immediately.
func isRetryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var ae *apiError
	if errors.As(err, &ae) {
		return ae.status >= 500
	}
	return false
}
