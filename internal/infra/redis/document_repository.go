package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-builder/internal/domain"

	"github.com/redis/go-redis/v9"
)

// DocumentRepository stores documents in Redis.
// Documents are stored as: SET  quiz:doc:{id} {json}
// The index is stored as:  HSET quiz:docs {id} {summary json}
// Both are written in one MULTI so the index never drifts from the documents.
type DocumentRepository struct {
	client *redis.Client
}

func NewDocumentRepository(client *redis.Client) *DocumentRepository {
	return &DocumentRepository{client: client}
}

func (r *DocumentRepository) Save(ctx context.Context, doc domain.Quiz) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	summary, err := json.Marshal(doc.Summary())
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.docKey(doc.ID), data, 0)
		pipe.HSet(ctx, indexKey, doc.ID, summary)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

func (r *DocumentRepository) Load(ctx context.Context, id string) (domain.Quiz, error) {
	data, err := r.client.Get(ctx, r.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quiz{}, domain.ErrDocumentNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load document %s: %w", id, err)
	}
	return domain.Decode(data)
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	raw, err := r.client.HGetAll(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]domain.DocumentSummary, 0, len(raw))
	for id, v := range raw {
		var s domain.DocumentSummary
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			// keep the entry visible even if its summary is unreadable
			s = domain.DocumentSummary{ID: id}
		}
		out = append(out, s)
	}
	domain.SortSummaries(out)
	return out, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.docKey(id))
		pipe.HDel(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if del.Val() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

const indexKey = "quiz:docs"

func (r *DocumentRepository) docKey(id string) string {
	return "quiz:doc:" + id
}
