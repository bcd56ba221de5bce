package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// CachedRepository caches loaded documents with TTL to avoid repeated backend
// hits when editors reopen a document. Writes go through to the backend.
type CachedRepository struct {
	backend app.DocumentRepository
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedDocument
}

type cachedDocument struct {
	doc       domain.Quiz
	expiresAt time.Time
}

func NewCachedRepository(backend app.DocumentRepository, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		backend: backend,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedDocument),
	}
}

func (r *CachedRepository) Load(ctx context.Context, id string) (domain.Quiz, error) {
	if doc, ok := r.lookup(id, r.clock()); ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return doc, nil
	}

	result, err, _ := r.sf.Do(id, func() (interface{}, error) {
		now := r.clock()
		if doc, ok := r.lookup(id, now); ok {
			return doc, nil
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

		doc, err := r.backend.Load(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}
		r.store(doc, now)
		return doc, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return *result.(domain.Quiz).Clone(), nil
}

func (r *CachedRepository) Save(ctx context.Context, doc domain.Quiz) error {
	if err := r.backend.Save(ctx, doc); err != nil {
		r.invalidate(doc.ID)
		return err
	}
	r.store(doc, r.clock())
	return nil
}

func (r *CachedRepository) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	return r.backend.List(ctx)
}

func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	r.invalidate(id)
	return r.backend.Delete(ctx, id)
}

func (r *CachedRepository) lookup(id string, now time.Time) (domain.Quiz, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[id]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Quiz{}, false
	}
	return *entry.doc.Clone(), true
}

func (r *CachedRepository) store(doc domain.Quiz, now time.Time) {
	ttl := r.ttlWithJitter()
	if ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.cache[doc.ID] = cachedDocument{doc: *doc.Clone(), expiresAt: now.Add(ttl)}
	r.mu.Unlock()
}

func (r *CachedRepository) invalidate(id string) {
	r.mu.Lock()
	delete(r.cache, id)
	r.mu.Unlock()
}

func (r *CachedRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
