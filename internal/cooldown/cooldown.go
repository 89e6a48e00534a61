// Package cooldown tracks per-(user, command) rate-limit windows.
package cooldown

import (
	"context"
	"sync"
	"time"
)

type key struct {
	userID  string
	command string
}

// Store holds cooldown expirations keyed by user and command. Expiry is
// always judged against the wall clock at check time; entries that outlive
// their window are inert until overwritten or swept.
type Store struct {
	mu      sync.Mutex
	expires map[key]time.Time
	now     func() time.Time
}

// New returns an empty cooldown store.
func New() *Store {
	return &Store{
		expires: make(map[key]time.Time),
		now:     time.Now,
	}
}

// CheckAndArm atomically checks the cooldown for (userID, command). If a live
// window exists it returns the remaining time and false without resetting it.
// Otherwise it arms a new window of d and returns (0, true). A non-positive d
// is always ready and stores nothing. The check-then-set holds one lock so two
// concurrent calls for the same key can never both observe ready.
func (s *Store) CheckAndArm(userID, command string, d time.Duration) (time.Duration, bool) {
	if d <= 0 {
		return 0, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	k := key{userID: userID, command: command}
	if until, ok := s.expires[k]; ok && until.After(now) {
		return until.Sub(now), false
	}
	s.expires[k] = now.Add(d)
	return 0, true
}

// RunSweeper deletes expired entries every interval until ctx is done. The
// sweep only bounds memory; correctness never depends on it.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, until := range s.expires {
		if !until.After(now) {
			delete(s.expires, k)
		}
	}
}

// Len reports the number of stored entries, live or expired.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}
