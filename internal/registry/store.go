// Package registry records which documents have been ingested into the
// knowledge base. The index itself stores bare chunks; the registry is what
// preserves document-level traceability (filename, chunk count, when).
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docchat/docchat/internal/db"
)

// Status of an ingested document.
const (
	StatusOK    = "ok"    // contributed at least one chunk
	StatusEmpty = "empty" // no text could be extracted
)

// Document is one ingestion record.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	Status     string    `json:"status"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Store persists ingestion records.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts one ingestion record and returns its generated ID.
func (s *Store) Record(ctx context.Context, filename string, chunkCount int) (string, error) {
	status := StatusOK
	if chunkCount == 0 {
		status = StatusEmpty
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, chunk_count, status) VALUES (?, ?, ?, ?)`,
		id, filename, chunkCount, status)
	if err != nil {
		return "", fmt.Errorf("recording document %s: %w", filename, err)
	}
	return id, nil
}

// List returns all ingestion records, most recent first.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, chunk_count, status, ingested_at FROM documents ORDER BY ingested_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.ChunkCount, &d.Status, &d.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Count returns the number of ingestion records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
