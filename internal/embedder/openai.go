// ABOUTME: OpenAI embeddings provider
// ABOUTME: Batches inputs, restores order from response indexes and retries with backoff
package embedder

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/docqa/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// maxBatch keeps each request under the API's per-call input limit
const maxBatch = 256

// OpenAIConfig holds configuration for the OpenAI embedder
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// embeddingsAPI is the part of the go-openai client the embedder uses
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAI calls the embeddings endpoint
type OpenAI struct {
	client     embeddingsAPI
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewOpenAI creates an OpenAI embedder
func NewOpenAI(cfg *OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
	}, nil
}

// ModelID returns the embedding model name
func (e *OpenAI) ModelID() string {
	return string(e.model)
}

// EmbedDocuments embeds texts in batches, preserving input order
func (e *OpenAI) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))
		vecs, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// EmbedQuery embeds a single text
func (e *OpenAI) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *OpenAI) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32

	err := util.Retry(ctx, e.maxRetries, e.retryDelay, e.timeout, func(ctx context.Context) error {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: e.model,
		})
		if err != nil {
			return err
		}
		if err := checkCount(len(resp.Data), len(texts)); err != nil {
			return err
		}

		ordered := make([][]float32, len(texts))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(texts) || ordered[d.Index] != nil {
				return fmt.Errorf("unexpected embedding index %d", d.Index)
			}
			ordered[d.Index] = d.Embedding
		}
		vecs = ordered
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vecs, nil
}
