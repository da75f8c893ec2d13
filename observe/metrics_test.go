package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			sums[m.Name] = total
		}
	}
	return sums
}

func TestMetrics_RecordRequest(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { mp.Shutdown(context.Background()) })

	m, err := newMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("newMetrics() error = %v", err)
	}

	meta := RequestMeta{Method: "GET", Target: "/api/accounts", Group: "accounts"}
	m.RecordRequest(context.Background(), meta, 200, 15*time.Millisecond, nil)
	m.RecordRequest(context.Background(), meta, 503, 40*time.Millisecond, errors.New("upstream unavailable"))
	m.RecordRequest(context.Background(), meta, 0, 5*time.Millisecond, errors.New("dial tcp: connection refused"))

	sums := collectSums(t, reader)
	if sums["httpclient.requests.total"] != 3 {
		t.Errorf("requests.total = %d, want 3", sums["httpclient.requests.total"])
	}
	if sums["httpclient.requests.errors"] != 2 {
		t.Errorf("requests.errors = %d, want 2", sums["httpclient.requests.errors"])
	}
}

func TestNoopMetrics(t *testing.T) {
	var m noopMetrics
	m.RecordRequest(context.Background(), RequestMeta{Method: "GET", Target: "/x"}, 200, time.Millisecond, nil)
}
