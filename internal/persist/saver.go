// Package persist writes committed documents to the repository in the
// background so editing never waits on storage.
package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/metrics"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrClosed is returned by Flush after Close.
var ErrClosed = errors.New("saver closed")

type pending struct {
	doc   domain.Quiz
	first time.Time
	due   time.Time
}

// Saver implements app.CommitSink. Commits for the same document are
// coalesced; the newest one is written once the document has been quiet for
// the debounce window, or after maxDelay at the latest.
type Saver struct {
	repo        app.DocumentRepository
	log         *zap.Logger
	debounce    time.Duration
	maxDelay    time.Duration
	saveTimeout time.Duration

	mu      sync.Mutex
	pending map[string]*pending
	closed  bool

	wake  chan struct{}
	flush chan chan error
	quit  chan struct{}
	done  chan struct{}
}

type Option func(*Saver)

func WithLogger(log *zap.Logger) Option {
	return func(s *Saver) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxDelay bounds how long a continuously edited document may stay unsaved.
func WithMaxDelay(d time.Duration) Option {
	return func(s *Saver) { s.maxDelay = d }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(s *Saver) { s.saveTimeout = d }
}

// NewSaver starts the background writer. Call Close to stop it.
func NewSaver(repo app.DocumentRepository, debounce time.Duration, opts ...Option) *Saver {
	s := &Saver{
		repo:        repo,
		log:         zap.NewNop(),
		debounce:    debounce,
		maxDelay:    10 * debounce,
		saveTimeout: 10 * time.Second,
		pending:     make(map[string]*pending),
		wake:        make(chan struct{}, 1),
		flush:       make(chan chan error),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxDelay < s.debounce {
		s.maxDelay = s.debounce
	}
	s.log = s.log.Named("saver")
	go s.run()
	return s
}

// Enqueue never blocks.
func (s *Saver) Enqueue(doc domain.Quiz) {
	now := time.Now()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("commit after close dropped", zap.String("document", doc.ID))
		return
	}
	p, ok := s.pending[doc.ID]
	if !ok {
		p = &pending{first: now}
		s.pending[doc.ID] = p
	}
	p.doc = doc
	p.due = now.Add(s.debounce)
	if limit := p.first.Add(s.maxDelay); p.due.After(limit) {
		p.due = limit
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending reports how many documents are waiting to be written.
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush writes everything pending now.
func (s *Saver) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.flush <- reply:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes what is pending and stops the writer.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.quit)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Saver) run() {
	defer close(s.done)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.wake:
		case <-timer.C:
			s.saveAll(s.take(time.Now()))
		case reply := <-s.flush:
			reply <- s.saveAll(s.take(time.Time{}))
		case <-s.quit:
			if err := s.saveAll(s.take(time.Time{})); err != nil {
				s.log.Error("final flush", zap.Error(err))
			}
			return
		}
		s.schedule(timer)
	}
}

// take removes and returns the documents due at now; the zero time takes all.
func (s *Saver) take(now time.Time) []domain.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Quiz
	for id, p := range s.pending {
		if now.IsZero() || !p.due.After(now) {
			out = append(out, p.doc)
			delete(s.pending, id)
		}
	}
	return out
}

func (s *Saver) schedule(timer *time.Timer) {
	s.mu.Lock()
	var next time.Time
	for _, p := range s.pending {
		if next.IsZero() || p.due.Before(next) {
			next = p.due
		}
	}
	s.mu.Unlock()

	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	if !next.IsZero() {
		timer.Reset(time.Until(next))
	}
}

func (s *Saver) saveAll(docs []domain.Quiz) error {
	var errs error
	for _, doc := range docs {
		errs = multierr.Append(errs, s.save(doc))
	}
	return errs
}

func (s *Saver) save(doc domain.Quiz) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Save(ctx, doc)
	metrics.SaveDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SavesTotal.WithLabelValues("failed").Inc()
		// the next commit for this document supersedes the failed one
		s.log.Error("save document", zap.String("document", doc.ID), zap.Error(err))
		return err
	}
	metrics.SavesTotal.WithLabelValues("ok").Inc()
	s.log.Debug("document saved", zap.String("document", doc.ID), zap.Duration("took", time.Since(start)))
	return nil
}
