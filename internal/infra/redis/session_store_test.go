package redis

import (
	"testing"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := NewSessionStore(client, time.Minute, zaptest.NewLogger(t))

	session := store.GetOrCreate("doc-1", func() *app.Session {
		return app.NewSession(domain.NewQuiz("doc-1", "Doc", nil, time.Now()))
	})
	if !mr.Exists("quiz:session:doc-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("quiz:session:doc-1"); ttl != time.Minute {
		t.Fatalf("expected marker ttl, got %v", ttl)
	}

	session.Join("e1")
	if store.DeleteIfEmpty("doc-1") {
		t.Fatalf("session with editors must stay")
	}
	session.Leave("e1")
	if !store.DeleteIfEmpty("doc-1") {
		t.Fatalf("expected empty session to be removed")
	}
	if mr.Exists("quiz:session:doc-1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
