// Package memory holds an in-process session store for single-instance
// deployments and local development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/authapp/portal/internal/core/domain"
)

type entry struct {
	raw     []byte
	version int64
	expires time.Time
}

// SessionStore keeps sessions serialised, so callers never share a pointer
// with the store and every load sees exactly what was last saved.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{entries: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (s *SessionStore) Load(_ context.Context, id string) (*domain.BrowserSession, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && s.ttl > 0 && !s.now().Before(e.expires) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	var sess domain.BrowserSession
	if err := json.Unmarshal(e.raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// Save stores sess when nobody saved it since it was loaded and bumps
// sess.Version; otherwise it returns domain.ErrSessionConflict. An expired
// or unknown session is always accepted.
func (s *SessionStore) Save(_ context.Context, sess *domain.BrowserSession) error {
	next := *sess
	next.Version++
	raw, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[sess.ID]; ok && (s.ttl <= 0 || now.Before(e.expires)) && e.version != sess.Version {
		return fmt.Errorf("save session %s: %w", sess.ID, domain.ErrSessionConflict)
	}
	s.entries[sess.ID] = entry{raw: raw, version: next.Version, expires: now.Add(s.ttl)}
	sess.Version = next.Version
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Ping always succeeds.
func (s *SessionStore) Ping(context.Context) error { return nil }
