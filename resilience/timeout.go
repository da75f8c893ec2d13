package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the per-attempt timeout.
type TimeoutConfig struct {
	// Timeout is the maximum duration for one attempt.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds a single attempt's duration and merges the deadline with
// the caller's cancellation, so either source aborts the attempt.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Timeout{config: config}
}

// Execute runs the operation under the attempt deadline.
//
// Deadline expiry surfaces as ErrTimeout; cancellation of the caller's
// context surfaces as that context's error, so "it was too slow" and
// "the caller gave up" stay distinguishable. The attempt timer is released
// on every exit path.
func (t *Timeout) Execute(parent context.Context, op func(context.Context) error) error {
	ctx, cancel := AttemptContext(parent, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if parent.Err() != nil {
			return parent.Err()
		}
		return ErrTimeout
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// AttemptContext derives the context for one attempt: the caller's
// cancellation merged with a per-attempt deadline. The caller must invoke
// the returned cancel to release the deadline timer.
func AttemptContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ExecuteWithTimeout is a convenience function to run an operation with a
// one-off timeout.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}
