package credential

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresWithin reports whether the token's exp claim falls within the given
// window from now. The token is parsed without signature verification: this
// layer treats the credential as opaque and only peeks at the expiry so
// callers can refresh proactively instead of waiting for a 401.
//
// Tokens without an exp claim return ErrNoExpiry; malformed tokens return a
// parse error. In both cases the caller should fall back to reactive
// refresh-on-401.
func ExpiresWithin(token string, window time.Duration) (bool, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, fmt.Errorf("parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false, fmt.Errorf("read expiry claim: %w", err)
	}
	if exp == nil {
		return false, ErrNoExpiry
	}

	return time.Until(exp.Time) <= window, nil
}
