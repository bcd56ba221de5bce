package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-builder/internal/domain"
)

func sampleDoc(id, name string, edited time.Time) domain.Quiz {
	return domain.NewQuiz(id, name, nil, edited)
}

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository()
	now := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

	doc := sampleDoc("doc-1", "Spring launch", now)
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Load(ctx, "doc-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !domain.Equal(&doc, &loaded) {
		t.Fatalf("loaded document differs")
	}

	loaded.Name = "changed"
	again, _ := repo.Load(ctx, "doc-1")
	if again.Name != "Spring launch" {
		t.Fatalf("load must not share state")
	}
}

func TestDocumentRepositoryIndex(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	repo := NewDocumentRepositoryWith(
		sampleDoc("a", "Older", base),
		sampleDoc("b", "Newer", base.Add(time.Hour)),
	)

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "b" || list[1].Name != "Older" {
		t.Fatalf("unexpected index %+v", list)
	}

	renamed := sampleDoc("a", "Renamed", base.Add(2*time.Hour))
	_ = repo.Save(ctx, renamed)
	list, _ = repo.List(ctx)
	if list[0].ID != "a" || list[0].Name != "Renamed" {
		t.Fatalf("index not updated on save: %+v", list)
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Load(ctx, "a"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	list, _ = repo.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %+v", list)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := domain.Decode([]byte("{not json")); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected invalid document, got %v", err)
	}
	doc, err := domain.Decode([]byte(`{"id":"x"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Screens) != 1 {
		t.Fatalf("expected migration to add a screen")
	}
}
