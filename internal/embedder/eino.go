// ABOUTME: Adapter for eino embedding components
// ABOUTME: Serves OpenAI-compatible embedding endpoints through cloudwego/eino-ext
package embedder

import (
	"context"
	"fmt"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	einoEmbedding "github.com/cloudwego/eino/components/embedding"
)

const defaultEinoBaseURL = "https://api.openai.com/v1"

// Eino wraps any eino Embedder. Vectors arrive as float64 and are narrowed to float32.
type Eino struct {
	embedder einoEmbedding.Embedder
	model    string
}

// NewEino creates an eino OpenAI-compatible embedder for baseURL
func NewEino(ctx context.Context, apiKey, baseURL, model string) (*Eino, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for eino embedder")
	}
	if baseURL == "" {
		baseURL = defaultEinoBaseURL
	}

	e, err := openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating eino embedder: %w", err)
	}
	return WrapEino(e, model), nil
}

// WrapEino adapts an existing eino embedder; model is reported by ModelID
func WrapEino(e einoEmbedding.Embedder, model string) *Eino {
	return &Eino{embedder: e, model: model}
}

// ModelID returns the configured model name
func (e *Eino) ModelID() string {
	return e.model
}

// EmbedDocuments embeds all texts in one call
func (e *Eino) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := e.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if err := checkCount(len(vectors), len(texts)); err != nil {
		return nil, err
	}

	out := make([][]float32, len(vectors))
	for i, vec := range vectors {
		out[i] = make([]float32, len(vec))
		for j, v := range vec {
			out[i][j] = float32(v)
		}
	}
	return out, nil
}

// EmbedQuery embeds a single text
func (e *Eino) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
