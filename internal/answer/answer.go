// ABOUTME: Answerer interface and provider factory
// ABOUTME: Answerers extract a span of the retrieved context; output is never post-processed
package answer

import (
	"context"
	"fmt"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/models"
)

// Answerer picks the span of contextText that best answers question.
// Callers never pass an empty context.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (models.Answer, error)
	ModelID() string
}

// New builds the configured answerer
func New(cfg *config.Config) (Answerer, error) {
	switch cfg.QAProvider {
	case config.QALexical:
		return NewLexical(), nil
	case config.QAOpenAI:
		clientCfg := llm.DefaultConfig(cfg.OpenAIKey)
		clientCfg.MaxRetries = cfg.MaxRetries
		if cfg.QAModel != "" {
			clientCfg.ChatModel = cfg.QAModel
		}
		if cfg.RetryDelay > 0 {
			clientCfg.RetryDelay = cfg.RetryDelay
		}
		if cfg.Timeout > 0 {
			clientCfg.Timeout = cfg.Timeout
		}
		client, err := llm.NewOpenAIClient(clientCfg)
		if err != nil {
			return nil, err
		}
		return NewOpenAI(client), nil
	}
	return nil, fmt.Errorf("%w: unknown QA provider %q", config.ErrInvalid, cfg.QAProvider)
}
