package credential

import "errors"

// Sentinel errors for credential operations.
var (
	// ErrNoExpiry indicates the token carries no exp claim.
	ErrNoExpiry = errors.New("credential: token has no expiry claim")
)
