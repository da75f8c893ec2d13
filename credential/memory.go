package credential

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory Backend. It provides no durability across
// restarts; use it in tests or to opt out of persistence while keeping the
// backend code path exercised.
type MemoryBackend struct {
	mu      sync.Mutex
	token   string
	present bool
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the stored token, or ok=false when none is stored.
func (b *MemoryBackend) Load(_ context.Context) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token, b.present, nil
}

// Save stores the token.
func (b *MemoryBackend) Save(_ context.Context, token string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
	b.present = true
	return nil
}

// Delete removes the stored token.
func (b *MemoryBackend) Delete(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
	b.present = false
	return nil
}

// Ensure MemoryBackend implements Backend
var _ Backend = (*MemoryBackend)(nil)
