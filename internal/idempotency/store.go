// Package idempotency remembers which booking an Idempotency-Key produced so a
// retried create returns the original booking instead of a duplicate.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInProgress means another request holding the same key has not finished.
var ErrInProgress = errors.New("request with this idempotency key is still in progress")

// Store reserves a key before the create runs and records the booking id
// after it commits. Release frees a key whose create failed.
type Store interface {
	// Reserve returns the stored booking id when the key already completed.
	// A zero id with a nil error means the caller now owns the key.
	Reserve(ctx context.Context, key string) (int64, error)
	Complete(ctx context.Context, key string, bookingID int64) error
	Release(ctx context.Context, key string) error
}

const DefaultTTL = 24 * time.Hour

// sweepInterval bounds how often Reserve walks the map for expired keys.
const sweepInterval = time.Minute

type memoryEntry struct {
	bookingID int64
	expires   time.Time
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	TTL time.Duration

	mu        sync.Mutex
	entries   map[string]memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{TTL: ttl, entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Reserve(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if e, ok := s.entries[key]; ok && now.Before(e.expires) {
		if e.bookingID == 0 {
			return 0, ErrInProgress
		}
		return e.bookingID, nil
	}
	s.entries[key] = memoryEntry{expires: now.Add(s.TTL)}
	return 0, nil
}

func (s *MemoryStore) Complete(ctx context.Context, key string, bookingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{bookingID: bookingID, expires: s.now().Add(s.TTL)}
	return nil
}

func (s *MemoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && e.bookingID == 0 {
		delete(s.entries, key)
	}
	return nil
}

// sweepLocked drops expired keys at most once per sweepInterval.
func (s *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}

// Len reports how many keys are held, expired ones included until the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
