package observe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordedRequest captures one RecordRequest call.
type recordedRequest struct {
	meta   RequestMeta
	status int
	err    error
}

type captureMetrics struct {
	mu       sync.Mutex
	recorded []recordedRequest
}

func (c *captureMetrics) RecordRequest(ctx context.Context, meta RequestMeta, status int, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recorded = append(c.recorded, recordedRequest{meta: meta, status: status, err: err})
}

func okResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

func TestMiddleware_Success(t *testing.T) {
	metrics := &captureMetrics{}
	mw := NewMiddleware(newNoopTracer(), metrics, NewNopLogger())

	meta := RequestMeta{Method: "GET", Target: "/api/accounts", Group: "accounts"}
	fn := mw.Wrap(func(ctx context.Context, m RequestMeta) (*http.Response, error) {
		return okResponse(), nil
	})

	resp, err := fn(context.Background(), meta)
	if err != nil {
		t.Fatalf("wrapped fn error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	if len(metrics.recorded) != 1 {
		t.Fatalf("recorded %d metric calls, want 1", len(metrics.recorded))
	}
	rec := metrics.recorded[0]
	if rec.status != http.StatusOK || rec.err != nil || rec.meta != meta {
		t.Errorf("recorded = %+v", rec)
	}
}

func TestMiddleware_ErrorPropagated(t *testing.T) {
	metrics := &captureMetrics{}
	mw := NewMiddleware(newNoopTracer(), metrics, NewNopLogger())

	wantErr := errors.New("dial tcp: connection refused")
	fn := mw.Wrap(func(ctx context.Context, m RequestMeta) (*http.Response, error) {
		return nil, wantErr
	})

	resp, err := fn(context.Background(), RequestMeta{Method: "GET", Target: "/x"})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
	if resp != nil {
		t.Errorf("response = %v, want nil", resp)
	}

	if len(metrics.recorded) != 1 {
		t.Fatalf("recorded %d metric calls, want 1", len(metrics.recorded))
	}
	if metrics.recorded[0].status != 0 {
		t.Errorf("status = %d, want 0 for missing response", metrics.recorded[0].status)
	}
	if metrics.recorded[0].err == nil {
		t.Error("recorded err = nil, want non-nil")
	}
}

func TestMiddleware_Logs(t *testing.T) {
	var logs safeBuffer
	logger := NewLoggerWithWriter("info", &logs)
	mw := NewMiddleware(newNoopTracer(), &captureMetrics{}, logger)

	fn := mw.Wrap(func(ctx context.Context, m RequestMeta) (*http.Response, error) {
		return okResponse(), nil
	})
	if _, err := fn(context.Background(), RequestMeta{Method: "GET", Target: "/ok"}); err != nil {
		t.Fatal(err)
	}

	out := logs.String()
	if !strings.Contains(out, "request completed") {
		t.Errorf("log output missing completion entry: %s", out)
	}
	if !strings.Contains(out, `"http.target":"/ok"`) {
		t.Errorf("log output missing request context: %s", out)
	}
}

// safeBuffer is a concurrency-safe strings.Builder for capturing logs.
type safeBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}
