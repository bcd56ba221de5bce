package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"quiz-builder/internal/domain"
)

// DocumentRepository keeps serialized documents in process memory. It stores
// JSON like the durable backends so that loads never share state with callers.
type DocumentRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	index map[string]domain.DocumentSummary
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		blobs: make(map[string][]byte),
		index: make(map[string]domain.DocumentSummary),
	}
}

// NewDocumentRepositoryWith seeds the repository, useful for tests and demos.
func NewDocumentRepositoryWith(docs ...domain.Quiz) *DocumentRepository {
	r := NewDocumentRepository()
	for _, doc := range docs {
		_ = r.Save(context.Background(), doc)
	}
	return r
}

func (r *DocumentRepository) Save(_ context.Context, doc domain.Quiz) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[doc.ID] = data
	r.index[doc.ID] = doc.Summary()
	return nil
}

func (r *DocumentRepository) Load(_ context.Context, id string) (domain.Quiz, error) {
	r.mu.RLock()
	data, ok := r.blobs[id]
	r.mu.RUnlock()
	if !ok {
		return domain.Quiz{}, domain.ErrDocumentNotFound
	}
	return domain.Decode(data)
}

func (r *DocumentRepository) List(_ context.Context) ([]domain.DocumentSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DocumentSummary, 0, len(r.index))
	for _, s := range r.index {
		out = append(out, s)
	}
	domain.SortSummaries(out)
	return out, nil
}

func (r *DocumentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(r.blobs, id)
	delete(r.index, id)
	return nil
}
