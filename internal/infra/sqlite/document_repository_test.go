package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"quiz-builder/internal/domain"
)

func TestDocumentRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.db")
	repo, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	base := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	first := domain.NewQuiz("doc-1", "First", nil, base)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, domain.NewQuiz("doc-2", "Second", nil, base.Add(time.Minute))); err != nil {
		t.Fatalf("save: %v", err)
	}

	first.Name = "First renamed"
	first.LastEdited = base.Add(time.Hour)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "doc-1" || list[0].Name != "First renamed" {
		t.Fatalf("unexpected list %+v", list)
	}
	if !list[0].LastEdited.Equal(base.Add(time.Hour)) {
		t.Fatalf("last edited not preserved: %v", list[0].LastEdited)
	}

	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// reopen to make sure data hit the file
	repo, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	got, err := repo.Load(ctx, "doc-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !domain.Equal(&got, &first) {
		t.Fatalf("loaded document differs from saved one")
	}

	if err := repo.Delete(ctx, "doc-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "doc-2"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.Load(ctx, "doc-2"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOpenInMemory(t *testing.T) {
	repo, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty store, got %+v", list)
	}
}
