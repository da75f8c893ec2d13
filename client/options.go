package client

import (
	"net/http"
	"time"

	"github.com/jonwraymond/httpguard/resilience"
)

// Options configures one request.
type Options struct {
	// Method is the HTTP method.
	// Default: GET
	Method string

	// Header holds additional request headers. The Authorization header is
	// managed by the client and overwritten when a credential is attached.
	Header http.Header

	// Body is the request body. A byte slice rather than a reader so every
	// retry attempt can replay it.
	Body []byte

	// TokenOverride attaches this credential instead of the store's. A
	// request with an override does not trigger refresh-on-401.
	TokenOverride string

	// SkipAuth sends the request without any credential. Used for login
	// and registration calls.
	SkipAuth bool

	// Timeout overrides the client's per-attempt timeout for this call.
	Timeout time.Duration

	// BreakerKey selects the circuit breaker group gating this call.
	// Empty means no breaker is applied.
	BreakerKey string

	// Retry overrides the client's retry template for this call. The
	// Breaker and Timeout fields are managed per call and ignored here.
	Retry *resilience.RetryConfig
}

func (o Options) method() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return o.Method
}
