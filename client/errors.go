package client

import (
	"errors"
	"fmt"
)

// ErrRefreshFailed is returned when the credential refresh call fails or
// yields no usable token. The credential store is cleared when this happens.
var ErrRefreshFailed = errors.New("client: credential refresh failed")

// StatusError reports an HTTP response whose status classified the attempt
// as a failure (5xx, 429, or a terminal 4xx).
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the HTTP status line, when available.
	Status string
}

// Error returns the error message.
func (e *StatusError) Error() string {
	if e.Status != "" {
		return "client: unexpected status " + e.Status
	}
	return fmt.Sprintf("client: unexpected status %d", e.StatusCode)
}
