package observe

import (
	"context"
	"net/http"
	"time"
)

// RequestFunc is the signature for logical request execution.
// This is the function signature that Middleware wraps.
type RequestFunc func(ctx context.Context, meta RequestMeta) (*http.Response, error)

// Middleware wraps request execution with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe RequestFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a RequestFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn RequestFunc) RequestFunc {
	return func(ctx context.Context, meta RequestMeta) (*http.Response, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		resp, err := fn(ctx, meta)
		duration := time.Since(start)

		status := 0
		if resp != nil {
			status = resp.StatusCode
		}

		m.tracer.EndSpan(span, err)
		m.metrics.RecordRequest(ctx, meta, status, duration, err)

		reqLogger := m.logger.WithRequest(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if status > 0 {
			fields = append(fields, Field{Key: "status", Value: status})
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			reqLogger.Error(ctx, "request failed", fields...)
		} else {
			reqLogger.Info(ctx, "request completed", fields...)
		}

		return resp, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
