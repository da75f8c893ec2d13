package health

import (
	"context"
	"time"

	"github.com/jonwraymond/httpguard/credential"
)

// CredentialChecker reports whether a usable credential is on hand.
//
// A missing credential is degraded, not unhealthy: the next 401 triggers a
// refresh, so requests still have a path to success. An already-expired
// credential is unhealthy because every request will burn a round trip
// before refreshing. Opaque tokens without an expiry claim count as present.
type CredentialChecker struct {
	store  *credential.Store
	window time.Duration
}

// NewCredentialChecker creates a checker over the given store. window is how
// far ahead of expiry the credential is reported as expiring; zero disables
// the early warning.
func NewCredentialChecker(store *credential.Store, window time.Duration) *CredentialChecker {
	return &CredentialChecker{store: store, window: window}
}

// Name returns the name of this checker.
func (c *CredentialChecker) Name() string {
	return "credential"
}

// Check inspects the stored credential.
func (c *CredentialChecker) Check(ctx context.Context) Result {
	token, ok := c.store.Get()
	if !ok {
		return Degraded("no credential present")
	}

	expired, err := credential.ExpiresWithin(token, 0)
	if err != nil {
		// Opaque or malformed tokens carry no expiry to judge.
		return Healthy("credential present")
	}
	if expired {
		return Unhealthy("credential expired", nil)
	}

	if c.window > 0 {
		if expiring, err := credential.ExpiresWithin(token, c.window); err == nil && expiring {
			return Degraded("credential expiring soon")
		}
	}

	return Healthy("credential present")
}
