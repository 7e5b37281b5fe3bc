// pkg/memcache/push_locks.go
package mem

import (
	"sync"
	"time"
)

// PushLockStore remembers which phones have an STK push in flight.
type PushLockStore interface {
	// Acquire takes the lock for key for ttl. It returns false while an
	// unexpired lock is already held.
	Acquire(key string, ttl time.Duration) bool

	Release(key string)

	Held(key string) bool
}

type PushLocks struct {
	mu   sync.Mutex
	data map[string]time.Time
	now  func() time.Time
}

func NewPushLocks() *PushLocks {
	return &PushLocks{
		data: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (s *PushLocks) Acquire(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.data[key]; ok && now.Before(expiresAt) {
		return false
	}
	s.data[key] = now.Add(ttl)
	s.sweep(now)
	return true
}

func (s *PushLocks) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *PushLocks) Held(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.data[key]
	return ok && s.now().Before(expiresAt)
}

// sweep drops expired entries; caller holds mu.
func (s *PushLocks) sweep(now time.Time) {
	for k, exp := range s.data {
		if !now.Before(exp) {
			delete(s.data, k)
		}
	}
}
