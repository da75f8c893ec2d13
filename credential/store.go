package credential

import (
	"context"
	"sync"
)

// Backend is a durable mirror for the credential, keyed by a fixed constant
// name. It is read once at startup and written on every Set and Clear.
//
// Implementations must be safe for concurrent use and must not log token
// values.
type Backend interface {
	// Load returns the stored token, or ok=false when none is stored.
	Load(ctx context.Context) (token string, ok bool, err error)

	// Save stores the token, replacing any previous value.
	Save(ctx context.Context, token string) error

	// Delete removes the stored token. Idempotent - no error when absent.
	Delete(ctx context.Context) error
}

// StoreConfig configures the credential store.
type StoreConfig struct {
	// Backend is the optional durable mirror. Nil means memory-only.
	Backend Backend

	// OnBackendError is called when a best-effort backend operation fails.
	// The in-memory value remains authoritative regardless.
	OnBackendError func(op string, err error)
}

// Store owns the current access credential. Exactly one "current" value
// exists per store; all writes go through Set and Clear.
type Store struct {
	config StoreConfig

	mu      sync.RWMutex
	token   string
	present bool
	gen     uint64

	// backendMu serializes mirror writes so the backend never observes
	// them out of order.
	backendMu sync.Mutex

	initOnce sync.Once
}

// NewStore creates a new credential store with no credential.
func NewStore(config StoreConfig) *Store {
	return &Store{config: config}
}

// Get returns the in-memory credential. Non-blocking.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.present
}

// Set updates the in-memory credential and mirrors it to the backend
// asynchronously. A mirror failure is reported via OnBackendError and
// swallowed.
func (s *Store) Set(ctx context.Context, token string) {
	s.mu.Lock()
	s.token = token
	s.present = true
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.mirror(ctx, gen, "save", func(ctx context.Context) error {
		if s.config.Backend == nil {
			return nil
		}
		return s.config.Backend.Save(ctx, token)
	})
}

// Clear removes the credential from memory and from the backend. Used on
// logout and on irrecoverable refresh failure.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.present = false
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.mirror(ctx, gen, "delete", func(ctx context.Context) error {
		if s.config.Backend == nil {
			return nil
		}
		return s.config.Backend.Delete(ctx)
	})
}

// Initialize seeds the in-memory value from the backend. It is idempotent:
// only the first call reads the backend. A backend failure leaves the store
// in the "no credential" state rather than failing startup.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		if s.config.Backend == nil {
			return
		}

		token, ok, err := s.config.Backend.Load(ctx)
		if err != nil {
			s.reportBackendError("load", err)
			return
		}
		if !ok {
			return
		}

		s.mu.Lock()
		// Don't clobber a credential set before Initialize ran.
		if !s.present {
			s.token = token
			s.present = true
		}
		s.mu.Unlock()
	})
}

// mirror runs one backend write in the background. Writes are serialized
// and stale ones (superseded by a later Set or Clear) are skipped, so the
// backend converges on the latest in-memory value.
func (s *Store) mirror(ctx context.Context, gen uint64, op string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		s.backendMu.Lock()
		defer s.backendMu.Unlock()

		s.mu.RLock()
		stale := gen != s.gen
		s.mu.RUnlock()
		if stale {
			return
		}

		if err := fn(ctx); err != nil {
			s.reportBackendError(op, err)
		}
	}()
}

func (s *Store) reportBackendError(op string, err error) {
	if s.config.OnBackendError != nil {
		s.config.OnBackendError(op, err)
	}
}
