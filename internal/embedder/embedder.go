// ABOUTME: Embedder interface and provider factory
// ABOUTME: The same configured embedder must be used at build time and at query time
package embedder

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/harper/docqa/internal/config"
)

// Embedder turns texts into fixed-length vectors, one per input, in input order
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// ModelID identifies the vector space; it is recorded in the build manifest
	ModelID() string
}

// Close releases e when it holds a connection, such as a Redis-backed cache
func Close(e Embedder) error {
	if closer, ok := e.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// New builds the configured provider, wrapped in the query cache when enabled
func New(ctx context.Context, cfg *config.Config) (Embedder, error) {
	var (
		base Embedder
		err  error
	)

	switch cfg.EmbeddingProvider {
	case config.EmbeddingHash:
		base = NewHash(cfg.HashDimension)
	case config.EmbeddingOpenAI:
		base, err = NewOpenAI(&OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.EmbeddingBaseURL,
			Model:      cfg.EmbeddingModel,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Timeout:    cfg.Timeout,
		})
	case config.EmbeddingEino:
		base, err = NewEino(ctx, cfg.OpenAIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", config.ErrInvalid, cfg.EmbeddingProvider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.EmbedCacheSize <= 0 && cfg.RedisAddr == "" {
		return base, nil
	}

	var shared VectorCache
	if cfg.RedisAddr != "" {
		rc, err := NewRedisCache(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: redis embedding cache disabled: %v", err)
		} else {
			shared = rc
		}
	}
	return NewCached(base, cfg.EmbedCacheSize, shared), nil
}

// checkCount guards against providers that drop or duplicate inputs
func checkCount(got, want int) error {
	if got != want {
		return fmt.Errorf("embedder returned %d vectors, expected %d", got, want)
	}
	return nil
}
