package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/editor"
	"quiz-builder/internal/metrics"

	"go.uber.org/zap"
)

// Workspace contains the builder use cases: document lifecycle, live editing
// sessions and the calls out to media and personalization providers.
type Workspace struct {
	sessions     SessionRepository
	docs         DocumentRepository
	sink         CommitSink
	media        MediaProvider
	personalizer ContentPersonalizer
	log          *zap.Logger
	now          func() time.Time
	storeOpts    []editor.Option
}

// Option configures a Workspace.
type Option func(*Workspace)

func WithCommitSink(sink CommitSink) Option {
	return func(w *Workspace) { w.sink = sink }
}

func WithMediaProvider(p MediaProvider) Option {
	return func(w *Workspace) { w.media = p }
}

func WithPersonalizer(p ContentPersonalizer) Option {
	return func(w *Workspace) { w.personalizer = p }
}

func WithLogger(log *zap.Logger) Option {
	return func(w *Workspace) {
		if log != nil {
			w.log = log
		}
	}
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithEditorOptions is applied to the DocumentStore of every opened session.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(w *Workspace) { w.storeOpts = append(w.storeOpts, opts...) }
}

func NewWorkspace(sessions SessionRepository, docs DocumentRepository, opts ...Option) *Workspace {
	w := &Workspace{
		sessions: sessions,
		docs:     docs,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Named("workspace")
	return w
}

// Create stores a new empty document.
func (w *Workspace) Create(ctx context.Context, name string) (domain.Quiz, error) {
	doc := domain.NewQuiz("", name, nil, w.now())
	if err := w.docs.Save(ctx, doc); err != nil {
		return domain.Quiz{}, fmt.Errorf("create document: %w", err)
	}
	w.log.Info("document created", zap.String("document", doc.ID), zap.String("name", doc.Name))
	return doc, nil
}

// Open joins editorID to the editing session of docID, loading the document
// from storage when nobody is editing it yet.
func (w *Workspace) Open(ctx context.Context, docID, editorID string) (*Session, domain.DocumentEvent, error) {
	session, ok := w.sessions.Get(docID)
	if !ok {
		doc, err := w.docs.Load(ctx, docID)
		if err != nil {
			return nil, domain.DocumentEvent{}, fmt.Errorf("open document %s: %w", docID, err)
		}
		session = w.sessions.GetOrCreate(docID, func() *Session {
			metrics.OpenSessions.Inc()
			return NewSession(doc,
				WithSessionLogger(w.log),
				WithSessionClock(w.now),
				WithSink(w.sink),
				WithStoreOptions(w.storeOpts...),
			)
		})
	}
	return session, session.Join(editorID), nil
}

// Leave disconnects an editor and closes the session once it is empty.
func (w *Workspace) Leave(_ context.Context, docID, editorID string) {
	session, ok := w.sessions.Get(docID)
	if !ok {
		return
	}
	session.Leave(editorID)
	if session.IsEmpty() && w.sessions.DeleteIfEmpty(docID) {
		metrics.OpenSessions.Dec()
		w.log.Info("session closed", zap.String("document", docID))
	}
}

// Get returns the live document when it is open, the stored one otherwise.
func (w *Workspace) Get(ctx context.Context, docID string) (domain.Quiz, error) {
	if session, ok := w.sessions.Get(docID); ok {
		return session.Document(), nil
	}
	return w.docs.Load(ctx, docID)
}

// List returns the stored document index.
func (w *Workspace) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	return w.docs.List(ctx)
}

// Delete removes a stored document. Documents being edited cannot be deleted.
func (w *Workspace) Delete(ctx context.Context, docID string) error {
	if _, ok := w.sessions.Get(docID); ok {
		return domain.ErrDocumentOpen
	}
	if err := w.docs.Delete(ctx, docID); err != nil {
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	w.log.Info("document deleted", zap.String("document", docID))
	return nil
}

// Subscribe returns a channel of state updates for an open document.
// The caller must invoke the returned cancel function to avoid leaks.
func (w *Workspace) Subscribe(_ context.Context, docID string) (<-chan domain.DocumentEvent, func(), error) {
	session, ok := w.sessions.Get(docID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Apply runs one editing operation on behalf of editorID.
func (w *Workspace) Apply(_ context.Context, docID, editorID, op string, fn func(*editor.DocumentStore) bool) (domain.DocumentEvent, bool, error) {
	session, ok := w.sessions.Get(docID)
	if !ok {
		return domain.DocumentEvent{}, false, domain.ErrSessionNotFound
	}
	if !session.HasEditor(editorID) {
		return domain.DocumentEvent{}, false, domain.ErrEditorNotFound
	}
	ev, applied := session.Apply(op, fn)
	return ev, applied, nil
}

// MediaFiles lists uploaded assets in a folder.
func (w *Workspace) MediaFiles(ctx context.Context, folder string) ([]domain.MediaFile, error) {
	if w.media == nil {
		return nil, domain.ErrProviderUnavailable
	}
	return w.media.ListFiles(ctx, folder)
}

// DeleteMediaFile removes an uploaded asset.
func (w *Workspace) DeleteMediaFile(ctx context.Context, path string) error {
	if w.media == nil {
		return domain.ErrProviderUnavailable
	}
	return w.media.DeleteFile(ctx, path)
}

// BindProduct loads a feed and binds the record with productID (or the first
// record when productID is empty) to a product card of an open document.
func (w *Workspace) BindProduct(ctx context.Context, docID, editorID, elementID, feedURL, productID string) (domain.DocumentEvent, bool, error) {
	if w.media == nil {
		return domain.DocumentEvent{}, false, domain.ErrProviderUnavailable
	}
	if _, ok := w.sessions.Get(docID); !ok {
		return domain.DocumentEvent{}, false, domain.ErrSessionNotFound
	}
	records, err := w.media.FetchFeed(ctx, feedURL)
	if err != nil {
		return domain.DocumentEvent{}, false, fmt.Errorf("fetch feed: %w", err)
	}
	rec, err := pickRecord(records, productID)
	if err != nil {
		return domain.DocumentEvent{}, false, err
	}
	return w.Apply(ctx, docID, editorID, "bindProduct", func(s *editor.DocumentStore) bool {
		return s.BindProduct(elementID, feedURL, rec)
	})
}

// Personalize rewrites text content of an open document for a visitor
// profile. The provider runs outside the session lock; replacements land in a
// single commit. A failing provider leaves the document untouched.
func (w *Workspace) Personalize(ctx context.Context, docID, editorID string, profile map[string]string) (int, error) {
	if w.personalizer == nil {
		return 0, domain.ErrProviderUnavailable
	}
	session, ok := w.sessions.Get(docID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	replacements, err := w.personalizer.Replacements(ctx, session.Document(), profile)
	if err != nil {
		w.log.Warn("personalization failed", zap.String("document", docID), zap.Error(err))
		return 0, err
	}
	changed := 0
	_, _, err = w.Apply(ctx, docID, editorID, "personalize", func(s *editor.DocumentStore) bool {
		changed = s.ApplyContent(replacements)
		return changed > 0
	})
	return changed, err
}

func pickRecord(records []domain.FeedRecord, productID string) (domain.FeedRecord, error) {
	if len(records) == 0 {
		return nil, domain.ErrProductNotFound
	}
	if productID == "" {
		return records[0], nil
	}
	for _, rec := range records {
		if rec.ProductID() == productID {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrDocumentNotFound)
}
