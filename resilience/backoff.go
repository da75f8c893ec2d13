package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffConfig configures the backoff policy.
type BackoffConfig struct {
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential component of the delay.
	MaxDelay time.Duration

	// Multiplier is the exponential growth factor per attempt.
	Multiplier float64

	// JitterFraction is the maximum fraction of the capped delay added as
	// random jitter, in [0, 1]. Jitter prevents synchronized retry storms
	// across many clients.
	JitterFraction float64

	// Rand is the random source for jitter, returning values in [0, 1).
	// If nil, math/rand/v2 is used. Inject a fixed source in tests.
	Rand func() float64
}

// Delay computes the wait duration before retry attempt (0-indexed).
//
// The exponential component is min(InitialDelay * Multiplier^attempt,
// MaxDelay); the final delay adds a random fraction of it:
//
//	delay = exp + exp*JitterFraction*rand01
//
// Delay has no side effects and is fully deterministic given a fixed Rand.
func Delay(attempt int, cfg BackoffConfig) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	exp := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if cfg.MaxDelay > 0 && exp > float64(cfg.MaxDelay) {
		exp = float64(cfg.MaxDelay)
	}

	if cfg.JitterFraction > 0 {
		rand01 := cfg.Rand
		if rand01 == nil {
			// #nosec G404 -- jitter is non-cryptographic timing variance.
			rand01 = rand.Float64
		}
		exp += exp * cfg.JitterFraction * rand01()
	}

	return time.Duration(exp)
}
