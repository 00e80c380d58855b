// ABOUTME: Assistant holds the loaded index, chunk texts and model handles for query time
// ABOUTME: Built once at startup and shared read-only across request handlers
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/harper/docqa/internal/answer"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/embedder"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/storage"
)

// Assistant answers questions about one indexed document
type Assistant struct {
	Embedder embedder.Embedder
	Answerer answer.Answerer
	Index    *index.Flat
	Metadata *storage.Metadata
	Manifest *index.Manifest
	TopK     int
	Timeout  time.Duration
}

// Open loads the persisted artifacts named by cfg and builds the configured models
func Open(ctx context.Context, cfg *config.Config) (_ *Assistant, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, classify(err)
	}

	emb, err := embedder.New(ctx, cfg)
	if err != nil {
		return nil, classify(err)
	}
	defer func() {
		if err != nil {
			embedder.Close(emb)
		}
	}()
	ans, err := answer.New(cfg)
	if err != nil {
		return nil, classify(err)
	}

	idx, err := index.Load(ctx, cfg.IndexPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no index at %s, run build-index first", ErrConfig, cfg.IndexPath)
		}
		return nil, classify(err)
	}

	store, err := storage.Open(cfg.MetadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	meta, err := store.Load(ctx)
	_ = store.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}

	manifest, err := index.LoadManifest(ctx, cfg.ManifestPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("[Assistant] Warning: no manifest at %s, skipping model check", cfg.ManifestPath())
		manifest = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	default:
		if err := manifest.Check(idx, emb.ModelID()); err != nil {
			return nil, classify(err)
		}
		if err := manifest.CheckRows(meta.Len()); err != nil {
			return nil, classify(err)
		}
	}

	a := &Assistant{
		Embedder: emb,
		Answerer: ans,
		Index:    idx,
		Metadata: meta,
		Manifest: manifest,
		TopK:     cfg.TopK,
		Timeout:  cfg.Timeout,
	}
	if err := a.CheckAlignment(); err != nil {
		log.Printf("[Assistant] Warning: %v", err)
	}
	return a, nil
}

// CheckAlignment reports a row-count disagreement between the index and the chunk texts
func (a *Assistant) CheckAlignment() error {
	if a.Index.Len() != a.Metadata.Len() {
		return fmt.Errorf("%w: index has %d rows, metadata has %d chunks", ErrIntegrity, a.Index.Len(), a.Metadata.Len())
	}
	return nil
}

// Retriever returns a retriever over the loaded artifacts
func (a *Assistant) Retriever() *Retriever {
	return &Retriever{
		Embedder: a.Embedder,
		Index:    a.Index,
		Metadata: a.Metadata,
		Timeout:  a.Timeout,
	}
}

// Passages returns the k nearest chunks for question; k <= 0 uses the configured top-k
func (a *Assistant) Passages(ctx context.Context, question string, k int) ([]models.Passage, error) {
	if k <= 0 {
		k = a.topK()
	}
	return a.Retriever().Passages(ctx, question, k)
}

// Answer retrieves context for question and extracts an answer span from it.
// The answerer is never called when retrieval yields no context.
func (a *Assistant) Answer(ctx context.Context, question string) (models.Answer, error) {
	contextText, err := a.Retriever().Retrieve(ctx, question, a.topK())
	if err != nil {
		return models.Answer{}, err
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	ans, err := a.Answerer.Answer(ctx, strings.TrimSpace(question), contextText)
	if err != nil {
		return models.Answer{}, capabilityErr("answerer", "answer", err)
	}
	return ans, nil
}

// Ask is retrieve-and-answer returning only the answer text
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	ans, err := a.Answer(ctx, question)
	if err != nil {
		return "", err
	}
	return ans.Text, nil
}

// Close releases connections held by the model handles
func (a *Assistant) Close() error {
	return embedder.Close(a.Embedder)
}

func (a *Assistant) topK() int {
	if a.TopK <= 0 {
		return config.DefaultTopK
	}
	return a.TopK
}
