package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-builder/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DocumentRepository keeps documents as JSONB rows. The name and last_edited
// columns double as the index.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Save(ctx context.Context, doc domain.Quiz) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO documents (id, name, last_edited, data)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, last_edited = EXCLUDED.last_edited, data = EXCLUDED.data`,
		doc.ID, doc.Name, doc.LastEdited, string(data))
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

func (r *DocumentRepository) Load(ctx context.Context, id string) (domain.Quiz, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM documents WHERE id=$1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrDocumentNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load document %s: %w", id, err)
	}
	return domain.Decode(raw)
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, last_edited FROM documents ORDER BY last_edited DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := []domain.DocumentSummary{}
	for rows.Next() {
		var s domain.DocumentSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.LastEdited); err != nil {
			return nil, fmt.Errorf("scan document summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
