package app

import (
	"context"

	"quiz-builder/internal/domain"
)

// DocumentRepository is the durable document store (in-memory, Redis,
// Postgres, SQLite). Save is idempotent and keeps the summary index in sync.
type DocumentRepository interface {
	Save(ctx context.Context, doc domain.Quiz) error
	Load(ctx context.Context, id string) (domain.Quiz, error)
	List(ctx context.Context) ([]domain.DocumentSummary, error)
	Delete(ctx context.Context, id string) error
}

// SessionRepository abstracts where open editing sessions are tracked.
type SessionRepository interface {
	// GetOrCreate returns the session for docID, calling build only when none exists.
	GetOrCreate(docID string, build func() *Session) *Session
	Get(docID string) (*Session, bool)
	// DeleteIfEmpty drops the session when no editor is connected and reports
	// whether it did.
	DeleteIfEmpty(docID string) bool
}

// CommitSink receives a copy of every committed document. Implementations
// must not block; persistence happens out of band.
type CommitSink interface {
	Enqueue(doc domain.Quiz)
}

// MediaProvider lists uploaded assets and reads product feeds.
type MediaProvider interface {
	ListFiles(ctx context.Context, folder string) ([]domain.MediaFile, error)
	DeleteFile(ctx context.Context, path string) error
	FetchFeed(ctx context.Context, url string) ([]domain.FeedRecord, error)
}

// ContentPersonalizer computes replacement content keyed by element id.
// Elements it cannot personalize are simply left out of the result.
type ContentPersonalizer interface {
	Replacements(ctx context.Context, doc domain.Quiz, profile map[string]string) (map[string]string, error)
}
