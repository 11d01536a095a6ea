package memory

import (
	"context"
	"sync"
	"time"

	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
)

type expiring[T any] struct {
	value     T
	expiresAt time.Time
}

func (e expiring[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// SessionStore implements usecase.SessionStore with TTL-bound copies.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]expiring[*domain.JokenpoSession]
	now      func() time.Time
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]expiring[*domain.JokenpoSession]),
		now:      time.Now,
	}
}

// Save stores a copy of the session for ttl.
func (s *SessionStore) Save(_ context.Context, session *domain.JokenpoSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.sessions[session.ID] = expiring[*domain.JokenpoSession]{value: session.Clone(), expiresAt: expiresAt}
	return nil
}

// Load returns a copy of a stored session.
func (s *SessionStore) Load(_ context.Context, id string) (*domain.JokenpoSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || e.expired(s.now()) {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	return e.value.Clone(), nil
}

// Delete removes a session. Missing sessions are ignored.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Cooldown implements usecase.CooldownLimiter with fixed windows.
type Cooldown struct {
	mu      sync.Mutex
	windows map[string]expiring[int]
	now     func() time.Time
}

// NewCooldown creates an empty Cooldown.
func NewCooldown() *Cooldown {
	return &Cooldown{
		windows: make(map[string]expiring[int]),
		now:     time.Now,
	}
}

// Allow counts an attempt and reports whether it is within threshold.
func (c *Cooldown) Allow(_ context.Context, key string, window time.Duration, threshold int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	w, ok := c.windows[key]
	if !ok || w.expired(now) {
		w = expiring[int]{expiresAt: now.Add(window)}
	}
	w.value++
	c.windows[key] = w
	return w.value <= threshold, nil
}

// IdempotencyStore implements usecase.IdempotencyStore.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]expiring[[]byte]
	now  func() time.Time
}

// NewIdempotencyStore creates an empty IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		keys: make(map[string]expiring[[]byte]),
		now:  time.Now,
	}
}

// CheckAndSet stores response unless key is already present.
func (s *IdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.keys[key]; ok && !e.expired(now) {
		return true, e.value, nil
	}
	s.keys[key] = expiring[[]byte]{value: response, expiresAt: now.Add(ttl)}
	return false, nil, nil
}

// Update replaces the stored response of key.
func (s *IdempotencyStore) Update(_ context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = expiring[[]byte]{value: response, expiresAt: s.now().Add(ttl)}
	return nil
}

// Delete forgets key.
func (s *IdempotencyStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
