package resilience

import "sync"

// Registry holds one circuit breaker per endpoint-group key, creating each
// lazily on first reference. Breakers persist for the registry's lifetime
// and are never destroyed, only reset.
type Registry struct {
	config CircuitBreakerConfig

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates a registry whose breakers share the given config.
func NewRegistry(config CircuitBreakerConfig) *Registry {
	return &Registry{
		config:   config,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for the given group key, creating it if needed.
func (r *Registry) Get(key string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[key]
	if !ok {
		cb = NewCircuitBreaker(r.config)
		r.breakers[key] = cb
	}
	return cb
}

// States returns a snapshot of the current state of every known breaker.
func (r *Registry) States() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make(map[string]State, len(r.breakers))
	for key, cb := range r.breakers {
		states[key] = cb.State()
	}
	return states
}

// Reset resets every breaker in the registry to closed.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cb := range r.breakers {
		cb.Reset()
	}
}
