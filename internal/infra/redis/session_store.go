package redis

import (
	"context"
	"sync"
	"time"

	"quiz-builder/internal/app"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions themselves live in a local map; the editing engine is in-process.
//   - Redis carries a liveness marker per open document so other instances (and
//     operators) can see which documents are being edited.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	log      *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *SessionStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		log:      log.Named("redis-sessions"),
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
	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(docID), "1", s.ttl).Err(); err != nil {
		s.log.Warn("set session marker", zap.String("document", docID), zap.Error(err))
	}
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
	if err := s.client.Del(context.Background(), s.key(docID)).Err(); err != nil {
		s.log.Warn("clear session marker", zap.String("document", docID), zap.Error(err))
	}
	return true
}

func (s *SessionStore) key(docID string) string {
	return "quiz:session:" + docID
}
