// services/login_guard.go
package services

import (
	"context"
	"sync"
	"time"
)

// Login guard parameters: fixed 15-minute window, 5 attempts per identifier.
const (
	LoginWindow      = 15 * time.Minute
	LoginMaxAttempts = 5
)

// RateLimitStore is the login guard capability. A single-instance
// deployment can use the in-process store; multi-instance deployments need
// the Redis store so all instances share one atomic counter per identifier.
type RateLimitStore interface {
	// CheckAndConsume atomically counts an attempt for the identifier and
	// reports whether it is allowed. Increment-and-compare is atomic per
	// identifier: two concurrent calls never both slip past the cap.
	CheckAndConsume(ctx context.Context, identifier string, now time.Time) (bool, error)

	// Reset clears the identifier's window (called after a successful login).
	Reset(ctx context.Context, identifier string) error
}

type attemptWindow struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimitStore is the in-process implementation.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{windows: make(map[string]*attemptWindow)}
}

func (s *MemoryRateLimitStore) CheckAndConsume(_ context.Context, identifier string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[identifier]
	if !ok || !now.Before(w.resetAt) {
		s.windows[identifier] = &attemptWindow{count: 1, resetAt: now.Add(LoginWindow)}
		return true, nil
	}
	if w.count < LoginMaxAttempts {
		w.count++
		return true, nil
	}
	return false, nil
}

func (s *MemoryRateLimitStore) Reset(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, identifier)
	return nil
}

// Cleanup drops expired windows. Run periodically from the scheduler; the
// guard stays correct without it, this only bounds memory.
func (s *MemoryRateLimitStore) Cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, id)
		}
	}
}
