// Package resilience provides the failure-handling building blocks for
// outbound HTTP calls.
//
// The package implements the patterns a resilient client composes around a
// single network attempt:
//
//   - Backoff: a pure policy computing the wait before a retry attempt,
//     exponential with a capped ceiling and proportional jitter.
//
//   - Circuit Breaker: a per-endpoint-group state machine that rejects calls
//     to an endpoint known to be failing until a cooldown elapses. A Registry
//     creates breakers lazily per group key.
//
//   - Timeout: bounds one attempt's duration and merges the deadline with the
//     caller's own cancellation, so either source aborts the attempt.
//
//   - Retry: drives repeated attempts through the breaker gate and the
//     timeout, classifying failures as transient (retry after backoff) or
//     terminal (surface immediately).
//
// # Usage
//
//	registry := resilience.NewRegistry(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    OpenTimeout:      time.Minute,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxRetries: 3,
//	    Breaker:    registry.Get("accounts"),
//	    Timeout:    resilience.NewTimeout(resilience.TimeoutConfig{Timeout: 10 * time.Second}),
//	})
//
//	err := retry.Execute(ctx, func(ctx context.Context) error {
//	    return callBackend(ctx)
//	})
//
// The breaker wraps exactly one call per invocation; retrying is the Retry
// executor's job, layered outside the breaker gate.
package resilience
