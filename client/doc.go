// Package client is the single entry point for resilient outbound HTTP
// calls.
//
// A Client attaches the current bearer credential, executes the request
// through the retry executor (each attempt gated by a per-endpoint-group
// circuit breaker and bounded by a per-attempt timeout), and on an HTTP 401
// performs one coordinated credential refresh before re-issuing the request
// exactly once. Concurrent 401s coalesce into a single refresh call; every
// waiter observes the same outcome.
//
// # Usage
//
//	c := client.New(client.Config{
//	    BaseURL:     "https://api.example.com",
//	    RefreshPath: "/auth/refresh",
//	})
//	c.Store().Initialize(ctx)
//
//	resp, err := c.Do(ctx, "/api/accounts", client.Options{
//	    BreakerKey: "accounts",
//	})
//
// Outcome classification: network-level errors, timeouts, and HTTP 5xx/429
// are transient and retried with backoff; other 4xx responses are terminal
// and returned to the caller after a single attempt; a breaker rejection
// surfaces as resilience.ErrCircuitOpen without a network attempt; caller
// cancellation propagates as context.Canceled and is never retried.
//
// Each Client carries its own breaker registry, credential store, and
// refresh coordination, so tests can instantiate isolated clients instead
// of sharing process-wide state.
package client
