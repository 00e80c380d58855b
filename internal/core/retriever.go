// ABOUTME: Retriever embeds a query, searches the index and assembles chunk texts into a context
// ABOUTME: Row ids outside the metadata bounds are dropped, never dereferenced
package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harper/docqa/internal/embedder"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/storage"
)

// contextSeparator joins retrieved chunks
const contextSeparator = "\n\n"

// Retriever is read-only after construction and safe for concurrent use
type Retriever struct {
	Embedder embedder.Embedder
	Index    *index.Flat
	Metadata *storage.Metadata
	Timeout  time.Duration
}

// Passages returns up to k passages in ranked order.
// A blank query is rejected before the embedder is called.
func (r *Retriever) Passages(ctx context.Context, query string, k int) ([]models.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrInput)
	}
	if r.Index == nil || r.Index.Len() == 0 || k <= 0 {
		return []models.Passage{}, nil
	}

	qctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	vec, err := r.Embedder.EmbedQuery(qctx, query)
	if err != nil {
		return nil, capabilityErr("embedder", "embed query", err)
	}

	hits, err := r.Index.Search(vec, k)
	if err != nil {
		return nil, classify(err)
	}

	passages := make([]models.Passage, 0, len(hits))
	dropped := 0
	for _, hit := range hits {
		text, ok := r.Metadata.Text(hit.Row)
		if !ok {
			dropped++
			continue
		}
		passages = append(passages, models.Passage{Row: hit.Row, Distance: hit.Distance, Text: text})
	}
	if dropped > 0 {
		log.Printf("[Retriever] Warning: dropped %d row ids outside metadata bounds (%d entries)", dropped, r.Metadata.Len())
	}
	return passages, nil
}

// Retrieve returns the top-k chunk texts joined by a blank line.
// ErrNoContext is returned when nothing usable was found.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (string, error) {
	passages, err := r.Passages(ctx, query, k)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	joined := strings.Join(texts, contextSeparator)
	if strings.TrimSpace(joined) == "" {
		return "", ErrNoContext
	}
	return joined, nil
}
