package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// without attempting the network. Distinguishable from transport errors
	// so callers can tell "endpoint is known-bad" from "this call failed".
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when a single attempt exceeds its time budget.
	// Caller-initiated cancellation is reported as context.Canceled instead.
	ErrTimeout = errors.New("resilience: attempt timed out")
)
