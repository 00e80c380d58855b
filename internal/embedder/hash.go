// ABOUTME: Deterministic local embedder based on signed feature hashing
// ABOUTME: Hashes folded words and character trigrams into an L2-normalised vector
package embedder

import (
	"context"
	"fmt"
	"math"

	"github.com/harper/docqa/internal/textnorm"
	"github.com/harper/docqa/internal/util"
)

// Hash needs no model download or network access. Texts sharing vocabulary land
// close together, which is enough for retrieval over a single document.
type Hash struct {
	dim int
}

// NewHash creates a hash embedder producing dim-length vectors
func NewHash(dim int) *Hash {
	if dim <= 0 {
		dim = 384
	}
	return &Hash{dim: dim}
}

// ModelID encodes the dimension so indexes of different widths are never mixed
func (h *Hash) ModelID() string {
	return fmt.Sprintf("hash-v1-%d", h.dim)
}

// EmbedDocuments embeds each text independently
func (h *Hash) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := h.embed(text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// EmbedQuery embeds a single query
func (h *Hash) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return h.embed(text)
}

func (h *Hash) embed(text string) ([]float32, error) {
	acc := make([]float64, h.dim)

	for _, tok := range textnorm.Tokens(text) {
		weight := 1.0
		if textnorm.IsStopword(tok) {
			weight = 0.25
		}
		if err := h.add(acc, "w:"+tok, weight); err != nil {
			return nil, err
		}
		padded := []rune("^" + tok + "$")
		for i := 0; i+3 <= len(padded); i++ {
			if err := h.add(acc, "t:"+string(padded[i:i+3]), 0.5*weight); err != nil {
				return nil, err
			}
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	out := make([]float32, h.dim)
	if norm == 0 {
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (h *Hash) add(acc []float64, feature string, weight float64) error {
	sum, err := util.Hash64([]byte(feature))
	if err != nil {
		return err
	}
	slot := sum % uint64(h.dim)
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[slot] += weight
	return nil
}
