package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/editor"
	"quiz-builder/internal/infra/memory"

	"go.uber.org/zap/zaptest"
)

var fixed = time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

func newWorkspace(t *testing.T, opts ...app.Option) (*app.Workspace, *memory.DocumentRepository) {
	t.Helper()
	docs := memory.NewDocumentRepositoryWith(domain.NewQuiz("doc-1", "Landing", nil, fixed))
	opts = append([]app.Option{app.WithLogger(zaptest.NewLogger(t)), app.WithClock(func() time.Time { return fixed })}, opts...)
	return app.NewWorkspace(memory.NewSessionStore(), docs, opts...), docs
}

func TestOpenSharesSessionAndLeaveCloses(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)

	s1, ev, err := ws.Open(ctx, "doc-1", "e1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if ev.Operation != "join" || ev.Document.Name != "Landing" {
		t.Fatalf("unexpected join event %+v", ev.Operation)
	}
	s2, _, err := ws.Open(ctx, "doc-1", "e2")
	if err != nil || s1 != s2 {
		t.Fatalf("expected shared session, err=%v", err)
	}

	ws.Leave(ctx, "doc-1", "e1")
	if _, _, err := ws.Subscribe(ctx, "doc-1"); err != nil {
		t.Fatalf("session should stay while e2 is connected: %v", err)
	}
	ws.Leave(ctx, "doc-1", "e2")
	if _, _, err := ws.Subscribe(ctx, "doc-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session closed, got %v", err)
	}
}

func TestOpenUnknownDocument(t *testing.T) {
	ws, _ := newWorkspace(t)
	if _, _, err := ws.Open(context.Background(), "nope", "e1"); !app.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyRequiresJoinedEditor(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	add := func(s *editor.DocumentStore) bool {
		_, ok := s.AddElement(domain.ElementText, domain.SectionBody, "")
		return ok
	}

	if _, _, err := ws.Apply(ctx, "doc-1", "e1", "addElement", add); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	ws.Open(ctx, "doc-1", "e1")
	if _, _, err := ws.Apply(ctx, "doc-1", "intruder", "addElement", add); !errors.Is(err, domain.ErrEditorNotFound) {
		t.Fatalf("expected editor not found, got %v", err)
	}
	ev, applied, err := ws.Apply(ctx, "doc-1", "e1", "addElement", add)
	if err != nil || !applied || ev.Version != 1 {
		t.Fatalf("expected applied edit, got %v %v %d", err, applied, ev.Version)
	}

	live, err := ws.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(live.Screens[0].Sections.Body.Elements) != 1 {
		t.Fatalf("get should return the live document")
	}
}

func TestCreateListDelete(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)

	doc, err := ws.Create(ctx, "Summer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, _ := ws.List(ctx)
	if len(list) != 2 {
		t.Fatalf("expected 2 documents, got %+v", list)
	}

	ws.Open(ctx, doc.ID, "e1")
	if err := ws.Delete(ctx, doc.ID); !errors.Is(err, domain.ErrDocumentOpen) {
		t.Fatalf("expected ErrDocumentOpen, got %v", err)
	}
	ws.Leave(ctx, doc.ID, "e1")
	if err := ws.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ws.Delete(ctx, doc.ID); !app.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type fakeMedia struct {
	records []domain.FeedRecord
	err     error
}

func (f *fakeMedia) ListFiles(context.Context, string) ([]domain.MediaFile, error) {
	return []domain.MediaFile{{Name: "hero.png", URL: "/assets/hero.png"}}, nil
}

func (f *fakeMedia) DeleteFile(context.Context, string) error { return nil }

func (f *fakeMedia) FetchFeed(context.Context, string) ([]domain.FeedRecord, error) {
	return f.records, f.err
}

func TestBindProduct(t *testing.T) {
	ctx := context.Background()
	feed := &fakeMedia{records: []domain.FeedRecord{
		{"id": "p-1", "title": "Mug", "price": "9.99"},
		{"id": "p-2", "title": "Cap", "price": "5.00", "image_link": "https://img/cap.png"},
	}}
	ws, _ := newWorkspace(t, app.WithMediaProvider(feed))
	ws.Open(ctx, "doc-1", "e1")

	var card string
	ws.Apply(ctx, "doc-1", "e1", "addElement", func(s *editor.DocumentStore) (ok bool) {
		card, ok = s.AddElement(domain.ElementProduct, domain.SectionBody, "")
		return ok
	})

	ev, applied, err := ws.BindProduct(ctx, "doc-1", "e1", card, "https://feed", "p-2")
	if err != nil || !applied {
		t.Fatalf("bind: applied=%v err=%v", applied, err)
	}
	el, _ := ev.Document.Find(card)
	if el.Attributes["productId"] != "p-2" || el.Attributes["feedUrl"] != "https://feed" {
		t.Fatalf("binding not stored: %+v", el.Attributes)
	}

	if _, _, err := ws.BindProduct(ctx, "doc-1", "e1", card, "https://feed", "p-9"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	files, err := ws.MediaFiles(ctx, "")
	if err != nil || len(files) != 1 {
		t.Fatalf("media files: %v %v", files, err)
	}
}

type fakePersonalizer struct {
	out map[string]string
	err error
}

func (f *fakePersonalizer) Replacements(_ context.Context, doc domain.Quiz, _ map[string]string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func TestPersonalize(t *testing.T) {
	ctx := context.Background()
	p := &fakePersonalizer{}
	sink := &recordingSink{}
	ws, _ := newWorkspace(t, app.WithPersonalizer(p), app.WithCommitSink(sink))
	ws.Open(ctx, "doc-1", "e1")

	var text string
	ws.Apply(ctx, "doc-1", "e1", "addElement", func(s *editor.DocumentStore) (ok bool) {
		text, ok = s.AddElement(domain.ElementText, domain.SectionBody, "")
		return ok
	})
	p.out = map[string]string{text: "Hello Oslo", "ghost": "ignored"}

	n, err := ws.Personalize(ctx, "doc-1", "e1", map[string]string{"city": "Oslo"})
	if err != nil || n != 1 {
		t.Fatalf("personalize: n=%d err=%v", n, err)
	}
	doc, _ := ws.Get(ctx, "doc-1")
	if el, _ := doc.Find(text); el.Content != "Hello Oslo" {
		t.Fatalf("content not replaced: %q", el.Content)
	}
	if sink.count() != 2 {
		t.Fatalf("expected add and personalize commits, got %d", sink.count())
	}

	p.err = errors.New("quota exceeded")
	if _, err := ws.Personalize(ctx, "doc-1", "e1", nil); err == nil {
		t.Fatalf("expected provider error")
	}
	doc, _ = ws.Get(ctx, "doc-1")
	if el, _ := doc.Find(text); el.Content != "Hello Oslo" {
		t.Fatalf("failed personalization must leave content unchanged")
	}
}

func TestProvidersUnavailable(t *testing.T) {
	ctx := context.Background()
	ws, _ := newWorkspace(t)
	if _, err := ws.MediaFiles(ctx, ""); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if _, err := ws.Personalize(ctx, "doc-1", "e1", nil); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
