package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// refreshKey coalesces every concurrent refresh into one call.
const refreshKey = "refresh"

// refreshResponse is the refresh endpoint's success body.
type refreshResponse struct {
	Token string `json:"token"`
}

// Refresh exchanges the ambient session (an HTTP-only cookie, not the
// bearer token) for a new bearer credential.
//
// At most one refresh is in flight per client: concurrent callers await the
// same pending call and receive its shared result, so parallel 401s cannot
// race two refreshes against each other. On failure the credential store is
// cleared (logical logout) and every waiter observes ErrRefreshFailed.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	token, err, _ := c.refreshGroup.Do(refreshKey, func() (any, error) {
		return c.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (c *Client) doRefresh(ctx context.Context) (string, error) {
	// The result is shared by every waiter, so the call is detached from
	// the triggering caller's cancellation and bounded on its own.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodPost, c.resolveURL(c.config.RefreshPath), nil)
	if err != nil {
		return "", fmt.Errorf("create refresh request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.store.Clear(rctx)
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.store.Clear(rctx)
		return "", fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.store.Clear(rctx)
		return "", fmt.Errorf("%w: malformed body: %v", ErrRefreshFailed, err)
	}
	if body.Token == "" {
		c.store.Clear(rctx)
		return "", fmt.Errorf("%w: empty token", ErrRefreshFailed)
	}

	// Every future request sees the new credential, not just this one.
	c.store.Set(rctx, body.Token)
	c.logger.Info(rctx, "credential refreshed")
	return body.Token, nil
}
