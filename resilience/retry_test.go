package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastBackoff() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", r.config.MaxRetries)
	}
	if r.config.Backoff.InitialDelay != 500*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 500ms", r.config.Backoff.InitialDelay)
	}
	if r.config.Backoff.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.Backoff.MaxDelay)
	}
	if r.config.Backoff.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Backoff.Multiplier)
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: 3, Backoff: fastBackoff()})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_Exhaustion(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: 3, Backoff: fastBackoff()})

	attempts := 0
	testErr := errors.New("persistent error")

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Errorf("Execute() error = %v, want the last error verbatim", err)
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want MaxRetries+1 = 4", attempts)
	}
}

func TestRetry_TerminalShortCircuit(t *testing.T) {
	terminal := errors.New("terminal")
	r := NewRetry(RetryConfig{
		MaxRetries: 3,
		Backoff:    fastBackoff(),
		RetryIf:    func(err error) bool { return !errors.Is(err, terminal) },
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return terminal
	})

	if !errors.Is(err, terminal) {
		t.Errorf("Execute() error = %v, want terminal error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_BreakerOpenFailsImmediately(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Hour,
	})
	cb.RecordFailure()

	r := NewRetry(RetryConfig{MaxRetries: 3, Backoff: fastBackoff(), Breaker: cb})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen", err)
	}
	if attempts != 0 {
		t.Errorf("attempts = %d, want 0 (no network attempt while open)", attempts)
	}
}

func TestRetry_ReportsToBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 10})
	r := NewRetry(RetryConfig{MaxRetries: 2, Backoff: fastBackoff(), Breaker: cb})

	attempts := 0
	testErr := errors.New("flaky")
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return testErr
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// The final success resets the closed-state failure counter.
	if m := cb.Metrics(); m.Failures != 0 {
		t.Errorf("breaker failures = %d, want 0 after final success", m.Failures)
	}
}

func TestRetry_CancellationDuringBackoff(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxRetries: 10,
		Backoff: BackoffConfig{
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2.0,
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Execute(ctx, func(ctx context.Context) error {
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRetry_CallerCancellationNotRetried(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: 5, Backoff: fastBackoff()})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return context.Canceled
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (cancellation is never retried)", attempts)
	}
}

func TestRetry_TimeoutIsTransient(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxRetries: 2,
		Backoff:    fastBackoff(),
		Timeout:    NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond}),
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v, want recovery after timed-out attempt", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestRetry_OnRetry(t *testing.T) {
	var seen []int
	r := NewRetry(RetryConfig{
		MaxRetries: 3,
		Backoff:    fastBackoff(),
		OnRetry: func(attempt int, err error, delay time.Duration) {
			seen = append(seen, attempt)
		},
	})

	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("transient")
	})

	// 4 attempts produce 3 backoff sleeps.
	if len(seen) != 3 {
		t.Fatalf("OnRetry calls = %d, want 3", len(seen))
	}
	for i, attempt := range seen {
		if attempt != i {
			t.Errorf("OnRetry call %d reported attempt %d, want %d", i, attempt, i)
		}
	}
}

func TestRetry_NegativeMaxRetriesDisables(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: -1, Backoff: fastBackoff()})

	attempts := 0
	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("transient")
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
