package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/httpguard/resilience"
)

// BreakerChecker reports the state of every circuit breaker in a registry.
//
// An open breaker means an endpoint group is being refused outright, so the
// check is unhealthy. A half-open breaker is probing its way back and counts
// as degraded.
type BreakerChecker struct {
	registry *resilience.Registry
}

// NewBreakerChecker creates a checker over the given breaker registry.
func NewBreakerChecker(registry *resilience.Registry) *BreakerChecker {
	return &BreakerChecker{registry: registry}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return "circuit-breakers"
}

// Check inspects every breaker's state.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	states := c.registry.States()

	details := make(map[string]any, len(states))
	open, halfOpen := 0, 0
	for group, state := range states {
		details[group] = state.String()
		switch state {
		case resilience.StateOpen:
			open++
		case resilience.StateHalfOpen:
			halfOpen++
		}
	}

	switch {
	case open > 0:
		return Unhealthy(fmt.Sprintf("%d breaker(s) open", open), nil).WithDetails(details)
	case halfOpen > 0:
		return Degraded(fmt.Sprintf("%d breaker(s) probing recovery", halfOpen)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("%d breaker(s) closed", len(states))).WithDetails(details)
	}
}
