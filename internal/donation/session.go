package donation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("donation session not found")

// DefaultSessionTTL is how long an idle session survives before the sweeper
// drops it.
const DefaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	machine  *Machine
	lastSeen time.Time
}

// Sessions is the in-memory registry of live donation form sessions, one
// machine per session. Abandoned sessions are swept after the TTL; there is
// no cancellation of an in-flight submission, the pipeline runs to
// completion even if the client never comes back for the result.
type Sessions struct {
	mu        sync.Mutex
	entries   map[string]*sessionEntry
	ttl       time.Duration
	submitter Submitter
	logger    *zap.Logger
}

func NewSessions(submitter Submitter, ttl time.Duration, logger *zap.Logger) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		entries:   make(map[string]*sessionEntry),
		ttl:       ttl,
		submitter: submitter,
		logger:    logger,
	}
}

// Create registers a new session and returns its ID.
func (s *Sessions) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = &sessionEntry{
		machine:  NewMachine(s.submitter),
		lastSeen: time.Now(),
	}
	s.mu.Unlock()
	return id
}

// Get returns the machine for a session, refreshing its idle timer.
func (s *Sessions) Get(id string) (*Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = time.Now()
	return e.machine, nil
}

// Remove drops a session.
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops sessions idle past the TTL, except those with a submission
// still in flight. Returns how many were removed.
func (s *Sessions) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) && e.machine.State() != StateSubmitting {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Start runs the sweep loop until ctx is done.
func (s *Sessions) Start(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && s.logger != nil {
				s.logger.Info("Swept idle donation sessions", zap.Int("removed", n))
			}
		}
	}
}
