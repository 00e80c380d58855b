// ABOUTME: SQLite-backed metadata store
// ABOUTME: Adapts the sqlite chunk table to the MetadataStore interface
package storage

import (
	"context"
	"fmt"

	"github.com/harper/docqa/internal/storage/sqlite"
)

// SQLiteStore keeps chunk texts in a SQLite database
type SQLiteStore struct {
	db     *sqlite.DB
	chunks *sqlite.ChunkStore
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata database: %w", err)
	}
	return newSQLiteStore(db), nil
}

func newSQLiteStore(db *sqlite.DB) *SQLiteStore {
	return &SQLiteStore{db: db, chunks: sqlite.NewChunkStore(db)}
}

// Save replaces all chunk texts
func (s *SQLiteStore) Save(ctx context.Context, chunks []string) error {
	return s.chunks.Replace(ctx, chunks)
}

// Load returns every chunk text in row order
func (s *SQLiteStore) Load(ctx context.Context) (*Metadata, error) {
	texts, err := s.chunks.All(ctx)
	if err != nil {
		return nil, err
	}
	if texts == nil {
		texts = []string{}
	}
	return &Metadata{Chunks: texts}, nil
}

// Info returns the bookkeeping entries recorded by the last Save
func (s *SQLiteStore) Info(ctx context.Context) (map[string]string, error) {
	return s.chunks.Info(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
