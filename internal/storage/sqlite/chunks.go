// ABOUTME: Chunk text persistence for SQLite
// ABOUTME: Replaces the whole chunk table atomically and reads it back in row order
package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ChunkStore reads and writes chunk texts
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// Replace deletes all chunks and inserts texts with row ids 0..len-1 in one transaction
func (s *ChunkStore) Replace(ctx context.Context, texts []string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks (row_id, text) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, text := range texts {
		if _, err := stmt.ExecContext(ctx, i, text); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO store_info (key, value) VALUES ('updated_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording update time: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO store_info (key, value) VALUES ('rows', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, strconv.Itoa(len(texts))); err != nil {
		return fmt.Errorf("recording row count: %w", err)
	}

	return tx.Commit()
}

// All returns every chunk text ordered by row id. Gaps in row ids are reported as errors.
func (s *ChunkStore) All(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT row_id, text FROM chunks ORDER BY row_id`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var texts []string
	for rows.Next() {
		var (
			rowID int
			text  string
		)
		if err := rows.Scan(&rowID, &text); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if rowID != len(texts) {
			return nil, fmt.Errorf("chunk rows are not contiguous: expected row %d, found %d", len(texts), rowID)
		}
		texts = append(texts, text)
	}
	return texts, rows.Err()
}

// Info returns the store_info entries written by Replace
func (s *ChunkStore) Info(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM store_info`)
	if err != nil {
		return nil, fmt.Errorf("querying store info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	info := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning store info: %w", err)
		}
		info[key] = value
	}
	return info, rows.Err()
}
