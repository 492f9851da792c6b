package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type sessionEntry struct {
	session   *domain.Session
	expiresAt time.Time
}

// SessionStore keeps sessions in process memory. It serves single-instance
// deployments and tests; updates hold one lock for the whole store.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
	logger   port.LoggerPort
}

func NewSessionStore(ttl time.Duration, logger port.LoggerPort) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.WithFields(port.Fields{"component": "MemorySessionStore"}),
	}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = sessionEntry{session: session.Clone(), expiresAt: s.expiry()}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return entry.session.Clone(), nil
}

func (s *SessionStore) Update(ctx context.Context, id string, mutate port.SessionMutator) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	next := entry.session.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	s.sessions[id] = sessionEntry{session: next, expiresAt: s.expiry()}
	return next.Clone(), nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	dropped := 0
	for id, entry := range s.sessions {
		if s.ttl > 0 && now.After(entry.expiresAt) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunJanitor sweeps periodically until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("Expired sessions removed", port.Fields{"count": n})
			}
		}
	}
}

// lookup must be called with mu held.
func (s *SessionStore) lookup(id string) (sessionEntry, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return sessionEntry{}, domain.ErrSessionNotFound
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return sessionEntry{}, domain.ErrSessionNotFound
	}
	return entry, nil
}

func (s *SessionStore) expiry() time.Time {
	return s.now().Add(s.ttl)
}
