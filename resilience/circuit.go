package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without a network attempt.
	StateOpen
	// StateHalfOpen means probe calls are allowed to test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures while closed
	// before the circuit opens.
	// Default: 5
	FailureThreshold int

	// SuccessThreshold is the number of consecutive successes while
	// half-open before the circuit closes again.
	// Default: 2
	SuccessThreshold int

	// OpenTimeout is how long the circuit stays open before the next call
	// is allowed through as a recovery probe.
	// Default: 60 seconds
	OpenTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// now is the time source; overridable in tests.
	now func() time.Time
}

// CircuitBreaker is a per-endpoint-group state machine that halts calls to
// an endpoint known to be failing.
//
// All state transitions happen under one mutex, so concurrent callers
// observe a linearizable sequence: no two calls can both decide to move the
// circuit from open to half-open.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	nextAttempt time.Time
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 60 * time.Second
	}
	if config.now == nil {
		config.now = time.Now
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Allow gates one call. It returns ErrCircuitOpen while the circuit is open
// and the cooldown has not elapsed. Once the cooldown passes, the first call
// to Allow moves the circuit to half-open and is let through as a probe.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.config.now().Before(cb.nextAttempt) {
			return ErrCircuitOpen
		}
		cb.transitionLocked(StateHalfOpen)
	}

	return nil
}

// RecordSuccess reports a successful call to the breaker.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.transitionLocked(StateClosed)
		}
	}
}

// RecordFailure reports a failed call to the breaker.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		// A single failed probe re-opens with a fresh cooldown.
		cb.transitionLocked(StateOpen)
	}
}

// Execute runs one operation through the breaker: gate, call, report.
// It does not retry; retrying is layered outside by the Retry executor.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.Allow(); err != nil {
		return err
	}

	err := op(ctx)
	if err != nil {
		cb.RecordFailure()
	} else {
		cb.RecordSuccess()
	}
	return err
}

// State returns the current circuit state. The open-to-half-open transition
// happens on the next gated call, not here, so an open circuit past its
// cooldown still reports open until a call probes it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset returns the circuit breaker to the closed state with zeroed counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateClosed {
		cb.transitionLocked(StateClosed)
	} else {
		cb.failures = 0
		cb.successes = 0
	}
}

// transitionLocked moves to a new state. Caller must hold the mutex.
func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	cb.state = to

	switch to {
	case StateOpen:
		cb.nextAttempt = cb.config.now().Add(cb.config.OpenTimeout)
	case StateHalfOpen:
		cb.successes = 0
	case StateClosed:
		cb.failures = 0
		cb.successes = 0
	}

	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// Metrics returns a snapshot of the breaker's counters and state.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:       cb.state,
		Failures:    cb.failures,
		Successes:   cb.successes,
		NextAttempt: cb.nextAttempt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State       State
	Failures    int
	Successes   int
	NextAttempt time.Time
}
