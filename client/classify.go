package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonwraymond/httpguard/resilience"
)

// Retryable classifies an attempt error as transient (retry) or terminal
// (stop). Transport-level failures and timeouts are transient; a breaker
// rejection and caller cancellation are terminal; a StatusError is transient
// only for 5xx and 429.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, resilience.ErrCircuitOpen) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return transientStatus(se.StatusCode)
	}

	// DNS failure, connection refused, abort, timeout: all transient.
	return true
}

// transientStatus reports whether the status is expected to be temporary
// and worth retrying.
func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// terminalStatus reports whether the status is a client error that retrying
// cannot fix. 401 is excluded: it is handled by the refresh path one layer
// up, not by retry classification.
func terminalStatus(code int) bool {
	return code >= 400 && code < 500 &&
		code != http.StatusUnauthorized &&
		code != http.StatusTooManyRequests
}
