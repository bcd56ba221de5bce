// Package sqlite stores documents in a single local SQLite file. It is meant
// for single-instance deployments and the CLI.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"quiz-builder/internal/domain"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	last_edited TEXT NOT NULL,
	data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_last_edited_idx ON documents (last_edited);
`

// DocumentRepository implements app.DocumentRepository on one connection.
// sqlite.Conn is not safe for concurrent use, so every call holds mu.
type DocumentRepository struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(path string) (*DocumentRepository, error) {
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = append(flags, sqlite.OpenMemory)
	} else {
		flags = append(flags, sqlite.OpenWAL)
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &DocumentRepository{conn: conn}, nil
}

func (r *DocumentRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.Close()
}

func (r *DocumentRepository) Save(ctx context.Context, doc domain.Quiz) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conn.SetInterrupt(ctx.Done())
	err = sqlitex.Execute(r.conn, `
		INSERT INTO documents (id, name, last_edited, data) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name, last_edited = excluded.last_edited, data = excluded.data`,
		&sqlitex.ExecOptions{Args: []any{doc.ID, doc.Name, formatTime(doc.LastEdited), string(data)}})
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

func (r *DocumentRepository) Load(ctx context.Context, id string) (domain.Quiz, error) {
	var (
		raw   string
		found bool
	)
	r.mu.Lock()
	r.conn.SetInterrupt(ctx.Done())
	err := sqlitex.Execute(r.conn, `SELECT data FROM documents WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				raw = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	r.mu.Unlock()
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load document %s: %w", id, err)
	}
	if !found {
		return domain.Quiz{}, domain.ErrDocumentNotFound
	}
	return domain.Decode([]byte(raw))
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	out := []domain.DocumentSummary{}
	r.mu.Lock()
	r.conn.SetInterrupt(ctx.Done())
	err := sqlitex.Execute(r.conn, `SELECT id, name, last_edited FROM documents`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			out = append(out, domain.DocumentSummary{
				ID:         stmt.ColumnText(0),
				Name:       stmt.ColumnText(1),
				LastEdited: parseTime(stmt.ColumnText(2)),
			})
			return nil
		}})
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	domain.SortSummaries(out)
	return out, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conn.SetInterrupt(ctx.Done())
	if err := sqlitex.Execute(r.conn, `DELETE FROM documents WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if r.conn.Changes() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
