// ABOUTME: Build manifest recorded next to the index file
// ABOUTME: Pins the embedding model and chunking so query time can detect mismatches
package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

var (
	// ErrModelMismatch is returned when the configured embedder differs from the one used at build time
	ErrModelMismatch = errors.New("embedding model mismatch")
	// ErrBuildMismatch is returned when an index or metadata file does not belong to the manifest's build
	ErrBuildMismatch = errors.New("artifact does not match build manifest")
)

// Manifest describes how an index was built
type Manifest struct {
	BuildID        string    `yaml:"build_id" json:"build_id"`
	CreatedAt      time.Time `yaml:"created_at" json:"created_at"`
	Source         string    `yaml:"source" json:"source"`
	EmbeddingModel string    `yaml:"embedding_model" json:"embedding_model"`
	Dimension      int       `yaml:"dimension" json:"dimension"`
	ChunkSize      int       `yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap   int       `yaml:"chunk_overlap" json:"chunk_overlap"`
	Rows           int       `yaml:"rows" json:"rows"`
	Checksum       string    `yaml:"checksum" json:"checksum"`
}

// NewManifest stamps a fresh build id and creation time
func NewManifest(source, model string, dim, chunkSize, overlap, rows int, checksum string) *Manifest {
	return &Manifest{
		BuildID:        uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		Source:         source,
		EmbeddingModel: model,
		Dimension:      dim,
		ChunkSize:      chunkSize,
		ChunkOverlap:   overlap,
		Rows:           rows,
		Checksum:       checksum,
	}
}

// Save writes the manifest as YAML
func (m *Manifest) Save(ctx context.Context, URL string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := ensureLocalDir(URL); err != nil {
		return err
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing manifest %s: %w", URL, err)
	}
	return nil
}

// LoadManifest reads a manifest. A missing file returns an error wrapping os.ErrNotExist.
func LoadManifest(ctx context.Context, URL string) (*Manifest, error) {
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("checking manifest %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("manifest %s not found: %w", URL, os.ErrNotExist)
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", URL, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", URL, err)
	}
	return &m, nil
}

// Check compares the manifest with the loaded index and the configured embedding model.
// The model is checked first so a changed embedder reports as configuration, not corruption.
func (m *Manifest) Check(idx *Flat, model string) error {
	if m.EmbeddingModel != model {
		return fmt.Errorf("%w: index built with embedding model %q, configured model is %q", ErrModelMismatch, m.EmbeddingModel, model)
	}
	if idx == nil {
		return nil
	}
	if idx.Len() > 0 && m.Dimension != idx.Dim() {
		return fmt.Errorf("%w: manifest dimension %d, index dimension %d", ErrDimensionMismatch, m.Dimension, idx.Dim())
	}
	if idx.Len() != m.Rows {
		return fmt.Errorf("%w: manifest records %d rows, index has %d", ErrBuildMismatch, m.Rows, idx.Len())
	}
	sum, err := idx.Checksum()
	if err != nil {
		return fmt.Errorf("computing index checksum: %w", err)
	}
	if sum != m.Checksum {
		return fmt.Errorf("%w: manifest checksum %s, index checksum %s", ErrBuildMismatch, m.Checksum, sum)
	}
	return nil
}

// CheckRows compares the manifest row count with the number of stored chunk texts
func (m *Manifest) CheckRows(chunks int) error {
	if chunks != m.Rows {
		return fmt.Errorf("%w: manifest records %d rows, metadata has %d chunks", ErrBuildMismatch, m.Rows, chunks)
	}
	return nil
}
