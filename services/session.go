// backend/services/session.go
package services

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session tracks the dedup bucket keys already recorded during one
// interactive session. The seen-set is in-memory only: it does not
// survive a restart and is not shared between sessions or processes.
// That makes the deduplication a best-effort double-submit guard, not a
// global uniqueness constraint, which is the intended semantic.
type Session struct {
	ID       string
	mu       sync.Mutex
	seen     map[string]struct{}
	lastUsed time.Time
}

// markSeen records the bucket key and reports whether it was new to this
// session.
func (s *Session) markSeen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// unmark forgets a bucket key again. Used when the insert behind a
// freshly marked key fails, so a retry is not mistaken for a duplicate
// of a check-in that never landed.
func (s *Session) unmark(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
}

var (
	sessionsMu sync.Mutex
	sessions   = make(map[string]*Session)
)

// GetOrCreateSession returns the session for the given id, creating a
// fresh one (with a newly issued id) when the id is empty or unknown.
// Sessions idle longer than ttl are dropped on the way through.
func GetOrCreateSession(id string, ttl time.Duration) *Session {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()

	now := timeNow()
	for sid, sess := range sessions {
		if now.Sub(sess.lastUsed) > ttl {
			delete(sessions, sid)
		}
	}

	if id != "" {
		if sess, ok := sessions[id]; ok {
			sess.lastUsed = now
			return sess
		}
	}

	sess := &Session{
		ID:       uuid.NewString(),
		seen:     make(map[string]struct{}),
		lastUsed: now,
	}
	sessions[sess.ID] = sess
	log.Printf("Service: Started new checkin session %s.\n", sess.ID)
	return sess
}
