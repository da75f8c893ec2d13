package resilience

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures the retry executor.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt, so up
	// to MaxRetries+1 attempts are made. Negative disables retrying.
	// Default: 3
	MaxRetries int

	// Backoff is the delay policy between attempts.
	// Default: 500ms initial, 30s cap, multiplier 2.0, jitter 0.25
	Backoff BackoffConfig

	// Breaker, if set, gates every attempt. A rejection fails the whole
	// call immediately with ErrCircuitOpen; no network attempt is made.
	Breaker *CircuitBreaker

	// Timeout, if set, bounds each individual attempt.
	Timeout *Timeout

	// RetryIf classifies an error as transient (retry) or terminal (stop).
	// The default treats every error as transient except ErrCircuitOpen
	// and caller cancellation.
	RetryIf func(err error) bool

	// OnRetry is called before each backoff sleep with the attempt index
	// (0-based), the suppressed error, and the computed delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry drives repeated attempts of an operation through the breaker gate
// and the attempt timeout, sleeping per the backoff policy between
// transient failures.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry executor.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.Backoff.InitialDelay <= 0 {
		config.Backoff.InitialDelay = 500 * time.Millisecond
	}
	if config.Backoff.MaxDelay <= 0 {
		config.Backoff.MaxDelay = 30 * time.Second
	}
	if config.Backoff.Multiplier <= 0 {
		config.Backoff.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryIf
	}

	return &Retry{config: config}
}

// DefaultRetryIf treats every error as transient except a breaker rejection
// and caller cancellation.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// Execute runs the operation with retry. Attempts are strictly sequential:
// attempt i+1 never starts before attempt i has fully resolved.
//
// Intermediate transient failures are suppressed (reported via OnRetry)
// until retries are exhausted, at which point the last error is returned
// verbatim. Terminal errors are returned immediately. A breaker rejection
// fails the call without consuming the network or further retry slots.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	attempts := r.config.MaxRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		if r.config.Breaker != nil {
			if err := r.config.Breaker.Allow(); err != nil {
				return err
			}
		}

		err := r.attempt(ctx, op)

		if r.config.Breaker != nil {
			switch {
			case err == nil:
				r.config.Breaker.RecordSuccess()
			case errors.Is(err, context.Canceled):
				// Caller abandonment says nothing about endpoint health.
			default:
				r.config.Breaker.RecordFailure()
			}
		}

		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		delay := Delay(attempt, r.config.Backoff)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		// Sleep for the backoff, unless the caller gives up first.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// attempt runs one attempt, bounded by the per-attempt timeout if set.
func (r *Retry) attempt(ctx context.Context, op func(context.Context) error) error {
	if r.config.Timeout != nil {
		return r.config.Timeout.Execute(ctx, op)
	}
	return op(ctx)
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
