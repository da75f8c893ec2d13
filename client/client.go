package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/httpguard/credential"
	"github.com/jonwraymond/httpguard/observe"
	"github.com/jonwraymond/httpguard/resilience"
)

// Config configures a Client.
type Config struct {
	// BaseURL is prepended to relative targets. Absolute targets pass
	// through unchanged.
	BaseURL string

	// HTTPClient is the underlying transport. If nil, a client with a
	// cookie jar is used; the jar carries the ambient session cookie the
	// refresh endpoint authenticates with.
	HTTPClient *http.Client

	// Store holds the bearer credential. If nil, a memory-only store is
	// created.
	Store *credential.Store

	// RefreshPath is the endpoint exchanged for a new bearer token.
	// Default: /auth/refresh
	RefreshPath string

	// Timeout bounds each individual attempt.
	// Default: 30 seconds
	Timeout time.Duration

	// Retry is the retry template applied to every request. Per-call
	// breaker and timeout wiring overwrite its Breaker and Timeout fields.
	Retry resilience.RetryConfig

	// Breaker configures the per-endpoint-group circuit breakers.
	Breaker resilience.CircuitBreakerConfig

	// Logger receives suppressed transient failures and refresh outcomes.
	// Default: no-op
	Logger observe.Logger

	// Middleware, if set, instruments every logical request with a span,
	// metrics, and an outcome log.
	Middleware *observe.Middleware
}

// Client is the request façade. It owns the breaker registry, the
// credential store, and the single-flight refresh coordination, so separate
// clients are fully isolated.
type Client struct {
	config     Config
	httpClient *http.Client
	store      *credential.Store
	breakers   *resilience.Registry
	logger     observe.Logger

	refreshGroup singleflight.Group
}

// New creates a new resilient client.
func New(config Config) *Client {
	// Apply defaults
	if config.RefreshPath == "" {
		config.RefreshPath = "/auth/refresh"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = observe.NewNopLogger()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar}
	}

	store := config.Store
	if store == nil {
		store = credential.NewStore(credential.StoreConfig{})
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		store:      store,
		breakers:   resilience.NewRegistry(config.Breaker),
		logger:     config.Logger,
	}
}

// Store returns the client's credential store.
func (c *Client) Store() *credential.Store {
	return c.store
}

// Breakers returns the client's circuit breaker registry.
func (c *Client) Breakers() *resilience.Registry {
	return c.breakers
}

// Do executes one logical request. The returned response may carry any
// status code the retry pipeline classified as a caller-visible outcome,
// including terminal 4xx and a 401 that survived a failed refresh.
func (c *Client) Do(ctx context.Context, target string, opts Options) (*http.Response, error) {
	meta := observe.RequestMeta{
		Method: opts.method(),
		Target: target,
		Group:  opts.BreakerKey,
	}

	run := func(ctx context.Context, _ observe.RequestMeta) (*http.Response, error) {
		return c.do(ctx, target, opts)
	}
	if c.config.Middleware != nil {
		run = c.config.Middleware.Wrap(run)
	}

	return run(ctx, meta)
}

// do resolves the credential, executes through the retry pipeline, and
// drives the one-shot refresh-and-retry cycle on 401.
func (c *Client) do(ctx context.Context, target string, opts Options) (*http.Response, error) {
	token := opts.TokenOverride
	haveToken := token != ""
	if !haveToken && !opts.SkipAuth {
		token, haveToken = c.store.Get()
	}

	resp, err := c.execute(ctx, target, opts, token, haveToken)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !opts.SkipAuth && opts.TokenOverride == "" {
		newToken, refreshErr := c.Refresh(ctx)
		if refreshErr != nil {
			// The caller gets the original 401 so it can drive a
			// user-facing re-authentication flow.
			c.logger.Warn(ctx, "credential refresh failed",
				observe.Field{Key: "target", Value: target},
				observe.Field{Key: "error", Value: refreshErr.Error()})
			return resp, nil
		}

		// One re-issue with the fresh credential; its outcome is final.
		drain(resp)
		return c.execute(ctx, target, opts, newToken, true)
	}

	return resp, nil
}

// execute runs the request through the retry executor. Terminal 4xx
// responses come back as the response itself; transient failures exhaust
// into the last error.
func (c *Client) execute(ctx context.Context, target string, opts Options, token string, haveToken bool) (*http.Response, error) {
	req, err := c.newRequest(target, opts, token, haveToken)
	if err != nil {
		return nil, err
	}

	// An attempt that outlives its deadline may still resolve in the
	// background; the mutex keeps its late write from racing the next
	// attempt or the caller.
	var mu sync.Mutex
	var resp *http.Response
	op := func(ctx context.Context) error {
		r := req.Clone(ctx)
		if opts.Body != nil {
			r.Body = io.NopCloser(bytes.NewReader(opts.Body))
		}

		res, err := c.httpClient.Do(r)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			drain(res)
			return ctx.Err()
		}

		switch {
		case transientStatus(res.StatusCode):
			// Drained so the connection is reusable for the retry.
			drain(res)
			return &StatusError{StatusCode: res.StatusCode, Status: res.Status}
		case terminalStatus(res.StatusCode):
			mu.Lock()
			resp = res
			mu.Unlock()
			return &StatusError{StatusCode: res.StatusCode, Status: res.Status}
		default:
			mu.Lock()
			resp = res
			mu.Unlock()
			return nil
		}
	}

	err = resilience.NewRetry(c.retryConfig(ctx, target, opts)).Execute(ctx, op)

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && resp != nil {
			// Terminal client error: surfaced as the response, once.
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

// retryConfig assembles the per-call retry configuration from the client
// template and the request options.
func (c *Client) retryConfig(ctx context.Context, target string, opts Options) resilience.RetryConfig {
	cfg := c.config.Retry
	if opts.Retry != nil {
		cfg = *opts.Retry
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	cfg.Timeout = resilience.NewTimeout(resilience.TimeoutConfig{Timeout: timeout})

	cfg.Breaker = nil
	if opts.BreakerKey != "" {
		cfg.Breaker = c.breakers.Get(opts.BreakerKey)
	}

	if cfg.RetryIf == nil {
		cfg.RetryIf = Retryable
	}

	userOnRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		c.logger.Warn(ctx, "transient failure, retrying",
			observe.Field{Key: "target", Value: target},
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			observe.Field{Key: "error", Value: err.Error()})
		if userOnRetry != nil {
			userOnRetry(attempt, err, delay)
		}
	}

	return cfg
}

// newRequest builds the base request; attempts clone it with their own
// context and body.
func (c *Client) newRequest(target string, opts Options, token string, haveToken bool) (*http.Request, error) {
	req, err := http.NewRequest(opts.method(), c.resolveURL(target), nil)
	if err != nil {
		return nil, err
	}

	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if opts.Body != nil {
		req.ContentLength = int64(len(opts.Body))
	}
	if haveToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// resolveURL joins a relative target onto the base URL.
func (c *Client) resolveURL(target string) string {
	if c.config.BaseURL == "" {
		return target
	}
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
}

// drain discards and closes a response body we will not return.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
