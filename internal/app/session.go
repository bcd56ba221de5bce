package app

import (
	"sort"
	"sync"
	"time"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/editor"
	"quiz-builder/internal/metrics"

	"go.uber.org/zap"
)

// Session is one open document shared by every connected editor. All
// operations run under the session lock, so mutations are linearized in the
// order they arrive.
type Session struct {
	id   string
	log  *zap.Logger
	now  func() time.Time
	sink CommitSink

	storeOpts []editor.Option

	mu          sync.Mutex
	store       *editor.DocumentStore
	version     int64
	committed   *domain.Quiz
	editors     map[string]time.Time
	subscribers map[chan domain.DocumentEvent]struct{}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session logger.
func WithSessionLogger(log *zap.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSessionClock is mostly for deterministic tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithSink forwards every committed document to sink.
func WithSink(sink CommitSink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

// WithStoreOptions passes options through to the DocumentStore.
func WithStoreOptions(opts ...editor.Option) SessionOption {
	return func(s *Session) { s.storeOpts = append(s.storeOpts, opts...) }
}

// NewSession opens doc for editing.
func NewSession(doc domain.Quiz, opts ...SessionOption) *Session {
	s := &Session{
		id:          doc.ID,
		log:         zap.NewNop(),
		now:         time.Now,
		editors:     make(map[string]time.Time),
		subscribers: make(map[chan domain.DocumentEvent]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("session").With(zap.String("document", doc.ID))
	storeOpts := append([]editor.Option{
		editor.WithLogger(s.log),
		editor.WithClock(s.now),
	}, s.storeOpts...)
	storeOpts = append(storeOpts, editor.WithCommitObserver(func(d *domain.Quiz) { s.committed = d }))
	s.store = editor.NewStore(doc, storeOpts...)
	return s
}

// ID returns the document id.
func (s *Session) ID() string { return s.id }

// Join registers an editor and returns the current state.
func (s *Session) Join(editorID string) domain.DocumentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.editors[editorID]; !ok {
		metrics.ConnectedEditors.Inc()
	}
	s.editors[editorID] = s.now()
	s.log.Info("editor joined", zap.String("editor", editorID), zap.Int("editors", len(s.editors)))
	return s.eventLocked("join")
}

// Leave removes an editor.
func (s *Session) Leave(editorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.editors[editorID]; !ok {
		return
	}
	delete(s.editors, editorID)
	metrics.ConnectedEditors.Dec()
	s.log.Info("editor left", zap.String("editor", editorID), zap.Int("editors", len(s.editors)))
}

// HasEditor reports whether editorID joined the session.
func (s *Session) HasEditor(editorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.editors[editorID]
	return ok
}

// Editors lists connected editor ids, sorted.
func (s *Session) Editors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.editors))
	for id := range s.editors {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether no editor is connected.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.editors) == 0
}

// Document returns a copy of the current document.
func (s *Session) Document() domain.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Document()
}

// Snapshot returns the current state without changing it.
func (s *Session) Snapshot() domain.DocumentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventLocked("snapshot")
}

// Apply runs one editing operation. fn reports whether it changed anything;
// when it did, subscribers receive the new state and committed documents are
// handed to the sink.
func (s *Session) Apply(op string, fn func(*editor.DocumentStore) bool) (domain.DocumentEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = nil
	applied := fn(s.store)
	metrics.MutationsTotal.WithLabelValues(op, metrics.Outcome(applied)).Inc()
	if !applied {
		return s.eventLocked(op), false
	}
	s.version++
	if s.committed != nil {
		past, _ := s.store.HistoryDepth()
		metrics.UndoDepth.Observe(float64(past))
		if s.sink != nil {
			s.sink.Enqueue(*s.committed.Clone())
		}
		s.committed = nil
	}
	return s.broadcastLocked(op), true
}

// Subscribe returns a channel that receives the state after every applied
// operation, starting with the current one. The caller must invoke cancel.
func (s *Session) Subscribe() (<-chan domain.DocumentEvent, func()) {
	ch := make(chan domain.DocumentEvent, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.eventLocked("snapshot")
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(op string) domain.DocumentEvent {
	ev := s.eventLocked(op)
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// slow subscriber: drop its oldest pending event
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
	return ev
}

func (s *Session) eventLocked(op string) domain.DocumentEvent {
	return domain.DocumentEvent{
		DocumentID: s.id,
		Version:    s.version,
		Operation:  op,
		Document:   s.store.Document(),
		Selection:  s.store.Selection(),
		CanUndo:    s.store.CanUndo(),
		CanRedo:    s.store.CanRedo(),
	}
}
