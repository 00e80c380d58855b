// ABOUTME: Builder runs the offline indexing pipeline for a single source document
// ABOUTME: Extract, chunk, embed in one batch, then persist index, chunk texts and manifest
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harper/docqa/internal/embedder"
	"github.com/harper/docqa/internal/extract"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/storage"
)

// BuildRequest names the source document and where the build artifacts go
type BuildRequest struct {
	DocumentPath string
	IndexPath    string
	ManifestPath string
	Metadata     storage.MetadataStore
}

// Builder turns a document into a persisted vector index plus row-aligned chunk texts
type Builder struct {
	Extractor extract.Extractor
	Chunker   *Chunker
	Embedder  embedder.Embedder
	Timeout   time.Duration
}

// NewBuilder creates a Builder with the default extractor registry
func NewBuilder(chunker *Chunker, emb embedder.Embedder) *Builder {
	return &Builder{
		Extractor: extract.NewRegistry(),
		Chunker:   chunker,
		Embedder:  emb,
	}
}

// Build runs the pipeline and returns the manifest describing the new index.
// Nothing is written when the document has no text.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (*index.Manifest, error) {
	if b.Chunker == nil || b.Embedder == nil {
		return nil, fmt.Errorf("%w: builder needs a chunker and an embedder", ErrConfig)
	}
	if req.Metadata == nil {
		return nil, fmt.Errorf("%w: no metadata store", ErrConfig)
	}

	doc, err := b.Extractor.Extract(ctx, req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("extracting document: %w", err)
	}
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%w: document %s has no extractable text", ErrInput, req.DocumentPath)
	}
	log.Printf("[Builder] Extracted %d pages from %s", doc.Pages, req.DocumentPath)

	chunks := b.Chunker.Split(doc.Text)
	texts := models.Texts(chunks)

	vectors, err := b.embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(vectors)
	if err != nil {
		return nil, classify(err)
	}

	checksum, err := idx.Persist(ctx, req.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to persist index: %w", err)
	}
	if err := req.Metadata.Save(ctx, texts); err != nil {
		return nil, fmt.Errorf("failed to persist metadata: %w", err)
	}

	manifest := index.NewManifest(req.DocumentPath, b.Embedder.ModelID(), idx.Dim(),
		b.Chunker.Size(), b.Chunker.Overlap(), idx.Len(), checksum)
	if req.ManifestPath != "" {
		if err := manifest.Save(ctx, req.ManifestPath); err != nil {
			return nil, fmt.Errorf("failed to persist manifest: %w", err)
		}
	}

	log.Printf("[Builder] Indexed %d chunks (dim %d) into %s", idx.Len(), idx.Dim(), req.IndexPath)
	return manifest, nil
}

// embed sends every chunk in a single call and checks that one vector came back per chunk
func (b *Builder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	vectors, err := b.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, capabilityErr("embedder", "embed documents", err)
	}
	if len(vectors) != len(texts) {
		return nil, capabilityErr("embedder", "embed documents",
			fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(texts)))
	}
	return vectors, nil
}
