package conversation

import (
	"sync"

	"github.com/ksumarshmallow/calbot/internal/types"
)

// ownerSession pairs a session with its own lock. Holding the lock for the
// whole of HandleMessage serializes messages from one owner while leaving
// different owners fully parallel.
type ownerSession struct {
	mu      sync.Mutex
	session types.Session
}

// sessionStore lazily creates one session per owner
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*ownerSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*ownerSession)}
}

// acquire returns the owner's session with its lock held; the caller must
// call release when done
func (s *sessionStore) acquire(ownerID string) *ownerSession {
	s.mu.Lock()
	os, ok := s.sessions[ownerID]
	if !ok {
		os = &ownerSession{session: types.Session{OwnerID: ownerID, State: types.StateIdle}}
		s.sessions[ownerID] = os
	}
	s.mu.Unlock()

	os.mu.Lock()
	return os
}

func (os *ownerSession) release() {
	os.mu.Unlock()
}
