// Package editor implements the document mutation engine: every structural
// edit of a quiz document, its selection and clipboard, undo/redo and the
// theme cascade.
package editor

import (
	"time"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/history"

	"go.uber.org/zap"
)

// DocumentStore owns exactly one document plus its history, selection and
// clipboard. Every mutating method follows the same protocol: locate the
// target, apply the change to a deep copy, commit the copy. A target that
// cannot be found leaves the document unchanged and the method reports false.
//
// A DocumentStore is not safe for concurrent use; app.Session serializes access.
type DocumentStore struct {
	history   *history.History[*domain.Quiz]
	selection domain.Selection
	clipboard []domain.Element

	limit    int
	newID    func() string
	now      func() time.Time
	log      *zap.Logger
	onCommit func(doc *domain.Quiz)
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithIDGenerator replaces the uuid generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *DocumentStore) { s.newID = fn }
}

// WithClock replaces time.Now.
func WithClock(fn func() time.Time) Option {
	return func(s *DocumentStore) { s.now = fn }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *DocumentStore) { s.log = log }
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(limit int) Option {
	return func(s *DocumentStore) { s.limit = limit }
}

// WithCommitObserver registers a callback invoked with every committed
// document, including undo and redo. The callback must not block.
func WithCommitObserver(fn func(doc *domain.Quiz)) Option {
	return func(s *DocumentStore) { s.onCommit = fn }
}

// NewStore opens doc for editing. The document is migrated first, so any
// stored document is accepted.
func NewStore(doc domain.Quiz, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		newID: domain.NewID,
		now:   time.Now,
		log:   zap.NewNop(),
		limit: history.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	initial := doc.Clone()
	domain.Migrate(initial, s.newID)
	s.history = history.New(initial, s.limit, domain.Equal, (*domain.Quiz).Clone)
	s.log = s.log.Named("editor").With(zap.String("document", initial.ID))
	return s
}

// Document returns a deep copy of the active document.
func (s *DocumentStore) Document() domain.Quiz {
	return *s.history.Present().Clone()
}

// Selection returns a copy of the selection.
func (s *DocumentStore) Selection() domain.Selection {
	return domain.Selection{
		ElementIDs: append([]string{}, s.selection.ElementIDs...),
		SectionID:  s.selection.SectionID,
	}
}

// Clipboard returns copies of the clipboard elements.
func (s *DocumentStore) Clipboard() []domain.Element {
	return domain.CloneElements(s.clipboard)
}

// CanUndo reports whether there is a past state to restore.
func (s *DocumentStore) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether an undone state can be reapplied.
func (s *DocumentStore) CanRedo() bool { return s.history.CanRedo() }

// HistoryDepth returns the sizes of the undo and redo stacks.
func (s *DocumentStore) HistoryDepth() (past, future int) {
	return s.history.Depth()
}

// Undo restores the previous snapshot.
func (s *DocumentStore) Undo() bool {
	doc, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.afterRestore(doc)
	return true
}

// Redo re-applies the last undone snapshot.
func (s *DocumentStore) Redo() bool {
	doc, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.afterRestore(doc)
	return true
}

// Replace swaps in a new document and discards history, selection and clipboard.
func (s *DocumentStore) Replace(doc domain.Quiz) {
	next := doc.Clone()
	domain.Migrate(next, s.newID)
	s.history.Reset(next)
	s.selection = domain.Selection{}
	s.clipboard = nil
	s.notify(s.history.Present())
}

func (s *DocumentStore) afterRestore(doc *domain.Quiz) {
	s.pruneSelection(doc)
	s.notify(doc)
}

// draft returns a private deep copy of the active document to edit.
func (s *DocumentStore) draft() *domain.Quiz {
	return s.history.Present().Clone()
}

// commit hands a finished draft to history. It reports false when the draft
// does not differ from the active document.
func (s *DocumentStore) commit(op string, next *domain.Quiz) bool {
	prevEdited := next.LastEdited
	next.LastEdited = s.now()
	if !s.history.Push(next) {
		next.LastEdited = prevEdited
		s.log.Debug("no-op mutation", zap.String("op", op))
		return false
	}
	past, _ := s.history.Depth()
	s.log.Debug("committed", zap.String("op", op), zap.Int("undo_depth", past))
	s.notify(s.history.Present())
	return true
}

func (s *DocumentStore) notify(doc *domain.Quiz) {
	if s.onCommit != nil {
		s.onCommit(doc)
	}
}

// current returns the index of the active screen in doc.
func current(doc *domain.Quiz) int {
	return domain.ClampIndex(doc.CurrentScreenIndex, len(doc.Screens))
}
