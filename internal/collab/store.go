package collab

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/forge/internal/clock"
)

// Store is an in-memory registry of sessions. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
	clock    clock.Clock
	logger   zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreClock sets the clock used for message and session timestamps.
func WithStoreClock(c clock.Clock) StoreOption {
	return func(s *Store) {
		s.clock = c
	}
}

// WithStoreLogger sets the store's logger.
func WithStoreLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		clock:    clock.RealClock{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open registers a new session and returns it. The caller owns the session.
func (s *Store) Open(topic, issueID string, participants ...string) *Session {
	sess := newSession(topic, issueID, participants, s.clock.Now)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.mu.Unlock()

	s.logger.Debug().
		Str("session_id", sess.ID).
		Str("topic", topic).
		Strs("participants", sess.Participants).
		Msg("collaboration session opened")
	return sess
}

// List returns the sessions in the order they were opened.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id])
	}
	return out
}

// Len returns the number of registered sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// GC removes resolved sessions that closed more than maxAge ago and returns how
// many were removed. Open sessions are never collected.
func (s *Store) GC(maxAge time.Duration) int {
	cutoff := s.clock.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		sess := s.sessions[id]
		if !sess.Resolved || sess.ClosedAt == nil || !sess.ClosedAt.Before(cutoff) {
			return false
		}
		delete(s.sessions, id)
		removed++
		return true
	})

	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Dur("max_age", maxAge).Msg("collaboration sessions collected")
	}
	return removed
}
