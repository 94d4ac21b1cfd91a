package verification

import (
	"sync"
	"time"
)

// Store is the process-wide registry of active verification codes. It maps an
// identifier (email or phone number) to its most recent code; issuing a new
// code for the same identifier overwrites the prior one, so only the latest
// code is ever verifiable. State is held in memory only and is lost on
// restart — a deliberate simplicity tradeoff, not a durability guarantee.
//
// The registry is shared by concurrent requests; every access goes through a
// single RWMutex. Two concurrent Issue calls for one identifier race and the
// last write wins — there is intentionally no compare-and-swap guard.
type Store struct {
	mu    sync.RWMutex
	codes map[string]*Code
	ttl   time.Duration

	now  func() time.Time // injectable clock for tests
	stop chan struct{}
}

// NewStore creates a Store whose codes live for ttl. Construct one per
// process and inject it; there is no package-level instance.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		codes: make(map[string]*Code),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
}

// Issue registers a fresh code for identifier, superseding any prior one.
// The returned value is a copy; the caller cannot mutate store state.
func (s *Store) Issue(identifier, method string) (Code, error) {
	value, err := generateCode()
	if err != nil {
		return Code{}, err
	}
	now := s.now()
	c := &Code{
		Identifier: identifier,
		Code:       value,
		Method:     method,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl),
	}
	s.mu.Lock()
	s.codes[identifier] = c
	s.mu.Unlock()
	return *c, nil
}

// Verify checks submitted against the registered code for identifier and
// consumes it on success. Failures are reported in order: ErrNotFound when no
// code is registered, ErrExpired when past expiry (even if the value would
// match), ErrMismatch on a wrong value, ErrAlreadyUsed when the code was
// consumed before. Verification is single-use: the used flag flips under the
// same lock that reads it, so a correct code is accepted exactly once.
func (s *Store) Verify(identifier, submitted string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[identifier]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(c.ExpiresAt) {
		return ErrExpired
	}
	if c.Code != submitted {
		return ErrMismatch
	}
	if c.Used {
		return ErrAlreadyUsed
	}
	c.Used = true
	return nil
}

// PeekLatest returns a copy of the most recent code registered for
// identifier, consumed or expired included. Diagnostics only; it is not part
// of the verification contract and never mutates state.
func (s *Store) PeekLatest(identifier string) (Code, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.codes[identifier]
	if !ok {
		return Code{}, false
	}
	return *c, true
}

// ListActive returns a snapshot of all non-consumed codes regardless of
// expiry. Callers filter by Active if they want only live ones.
func (s *Store) ListActive() []Code {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Code, 0, len(s.codes))
	for _, c := range s.codes {
		if !c.Used {
			out = append(out, *c)
		}
	}
	return out
}

// StartSweeper launches a goroutine that periodically drops entries expired
// for longer than retention. Superseded history is kept only that long.
func (s *Store) StartSweeper(interval, retention time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(retention)
			case <-s.stop:
				return
			}
		}
	}()
}

// Close stops the sweeper goroutine, if one was started.
func (s *Store) Close() {
	close(s.stop)
}

func (s *Store) sweep(retention time.Duration) {
	cutoff := s.now().Add(-retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.codes {
		if c.ExpiresAt.Before(cutoff) {
			delete(s.codes, id)
		}
	}
}
