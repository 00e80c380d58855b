// ABOUTME: JSON metadata store of the form {"chunks": [...]}
// ABOUTME: Reads and writes through afs so paths may also be remote URLs
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// JSONStore keeps metadata in a single JSON document
type JSONStore struct {
	fs  afs.Service
	url string
}

// NewJSONStore creates a store for URL; nothing is read until Load
func NewJSONStore(URL string) *JSONStore {
	return &JSONStore{fs: afs.New(), url: URL}
}

// Save writes all chunk texts, replacing any previous file
func (s *JSONStore) Save(ctx context.Context, chunks []string) error {
	if chunks == nil {
		chunks = []string{}
	}
	data, err := json.MarshalIndent(&Metadata{Chunks: chunks}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if !strings.Contains(s.url, "://") {
		if err := os.MkdirAll(filepath.Dir(s.url), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", s.url, err)
		}
	}
	if err := s.fs.Upload(ctx, s.url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing metadata %s: %w", s.url, err)
	}
	return nil
}

// Load reads the chunk texts. A missing file returns an error wrapping os.ErrNotExist.
func (s *JSONStore) Load(ctx context.Context) (*Metadata, error) {
	exists, err := s.fs.Exists(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("checking metadata %s: %w", s.url, err)
	}
	if !exists {
		return nil, fmt.Errorf("metadata %s not found: %w", s.url, os.ErrNotExist)
	}
	data, err := s.fs.DownloadWithURL(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("reading metadata %s: %w", s.url, err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", s.url, err)
	}
	if m.Chunks == nil {
		return nil, fmt.Errorf("metadata %s has no \"chunks\" key", s.url)
	}
	return &m, nil
}

// Close is a no-op for file-backed metadata
func (s *JSONStore) Close() error {
	return nil
}
