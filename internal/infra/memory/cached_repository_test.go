package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"
)

func TestCachedRepositoryCaches(t *testing.T) {
	backend := &countingRepo{DocumentRepository: NewDocumentRepositoryWith(sampleDoc("doc-1", "Doc", time.Now()))}
	repo := NewCachedRepository(backend, time.Minute)

	if _, err := repo.Load(context.Background(), "doc-1"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if backend.loads != 1 {
		t.Fatalf("expected backend once, got %d", backend.loads)
	}

	if _, err := repo.Load(context.Background(), "doc-1"); err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if backend.loads != 1 {
		t.Fatalf("expected cache hit, backend loads %d", backend.loads)
	}
}

func TestCachedRepositoryExpires(t *testing.T) {
	backend := &countingRepo{DocumentRepository: NewDocumentRepositoryWith(sampleDoc("doc-1", "Doc", time.Now()))}
	repo := NewCachedRepository(backend, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.Load(context.Background(), "doc-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.Load(context.Background(), "doc-1")
	if backend.loads != 2 {
		t.Fatalf("expected reload after expiry, got %d", backend.loads)
	}
}

func TestCachedRepositoryWriteThrough(t *testing.T) {
	ctx := context.Background()
	backend := &countingRepo{DocumentRepository: NewDocumentRepository()}
	repo := NewCachedRepository(backend, time.Minute)

	doc := sampleDoc("doc-1", "Doc", time.Now())
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Load(ctx, "doc-1")
	if err != nil || loaded.Name != "Doc" || backend.loads != 0 {
		t.Fatalf("expected cached copy after save, loads=%d err=%v", backend.loads, err)
	}

	if err := repo.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Load(ctx, "doc-1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

type countingRepo struct {
	app.DocumentRepository
	loads int
}

func (r *countingRepo) Load(ctx context.Context, id string) (domain.Quiz, error) {
	r.loads++
	return r.DocumentRepository.Load(ctx, id)
}
