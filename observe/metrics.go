package observe

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records outbound request metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records one logical request with its final status,
	// duration, and error outcome. status is 0 when no response exists.
	RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"httpclient.requests.total",
		metric.WithDescription("Total number of logical requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"httpclient.requests.errors",
		metric.WithDescription("Total number of failed logical requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"httpclient.request.duration_ms",
		metric.WithDescription("Logical request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// RecordRequest records metrics for one logical request.
func (m *metricsImpl) RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", meta.Method),
		attribute.String("http.target", meta.Target),
	}
	if meta.Group != "" {
		attrs = append(attrs, attribute.String("breaker.group", meta.Group))
	}
	if status > 0 {
		attrs = append(attrs, attribute.String("http.response.status_code", strconv.Itoa(status)))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration, err error) {
}
