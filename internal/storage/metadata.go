// ABOUTME: Metadata store holding chunk texts row-aligned with the vector index
// ABOUTME: Chooses a JSON file or SQLite backend from the path extension
package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// Metadata is the ordered list of chunk texts; entry i belongs to index row i
type Metadata struct {
	Chunks []string `json:"chunks"`
}

// Len returns the number of chunk texts
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Chunks)
}

// Text returns the chunk text for row, or false when row is out of range
func (m *Metadata) Text(row int) (string, bool) {
	if m == nil || row < 0 || row >= len(m.Chunks) {
		return "", false
	}
	return m.Chunks[row], true
}

// MetadataStore persists chunk texts
type MetadataStore interface {
	Save(ctx context.Context, chunks []string) error
	Load(ctx context.Context) (*Metadata, error)
	Close() error
}

// InfoReporter is implemented by stores that keep bookkeeping entries next to the chunks
type InfoReporter interface {
	Info(ctx context.Context) (map[string]string, error)
}

// Open returns the store for path: SQLite for .db/.sqlite/.sqlite3, JSON otherwise
func Open(path string) (MetadataStore, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return NewJSONStore(path), nil
	}
}
