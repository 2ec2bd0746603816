package session

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is one stored session.
type memoryEntry struct {
	values   map[string]string
	ttl      time.Duration
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// NewMemoryStore creates an in-memory store and starts a background loop
// that evicts expired sessions every cleanupInterval. Call Close to stop it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go s.cleanupLoop(cleanupInterval)
	}
	return s
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	if e.expired(now) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}

	e.lastSeen = now
	return copyValues(e.values), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, id string, values map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &memoryEntry{
		values:   copyValues(values),
		ttl:      ttl,
		lastSeen: s.now(),
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included until the
// next cleanup.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

// evictExpired drops every session idle for longer than its TTL.
func (s *MemoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
}

func (e *memoryEntry) expired(now time.Time) bool {
	return e.ttl > 0 && e.lastSeen.Add(e.ttl).Before(now)
}
