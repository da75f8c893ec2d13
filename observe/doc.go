// Package observe provides telemetry for outbound request execution:
// structured logging, OpenTelemetry metrics, and tracing.
//
// An Observer bundles the three concerns behind one configuration:
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "checkout",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//
//	mw, err := observe.MiddlewareFromObserver(obs)
//
// The Middleware wraps a request function with a client span, request
// counters, a duration histogram, and one structured outcome log per
// logical request. Log fields with sensitive keys (token, credential,
// password, ...) are redacted automatically.
package observe
