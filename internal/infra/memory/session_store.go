package memory

import (
	"sync"

	"quiz-builder/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(docID string, build func() *app.Session) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[docID]; ok {
		return session
	}
	session := build()
	s.sessions[docID] = session
	return session
}

func (s *SessionStore) Get(docID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[docID]
	return session, ok
}

func (s *SessionStore) DeleteIfEmpty(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[docID]
	if !ok || !session.IsEmpty() {
		return false
	}
	delete(s.sessions, docID)
	return true
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
