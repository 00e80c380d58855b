// ABOUTME: Answerer backed by an OpenAI chat model
// ABOUTME: Returns the model's span verbatim and locates it in the context when possible
package answer

import (
	"context"
	"strings"

	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/models"
)

type spanExtractor interface {
	ExtractSpan(ctx context.Context, question, contextText string) (*llm.Span, error)
	Model() string
}

// OpenAI delegates span selection to a chat model
type OpenAI struct {
	client spanExtractor
}

// NewOpenAI wraps an llm client
func NewOpenAI(client *llm.OpenAIClient) *OpenAI {
	return &OpenAI{client: client}
}

// ModelID returns the chat model name
func (o *OpenAI) ModelID() string {
	return o.client.Model()
}

// Answer returns whatever span the model produced
func (o *OpenAI) Answer(ctx context.Context, question, contextText string) (models.Answer, error) {
	span, err := o.client.ExtractSpan(ctx, question, contextText)
	if err != nil {
		return models.Answer{}, err
	}

	ans := models.Answer{Text: span.Answer, Score: span.Confidence}
	if i := strings.Index(contextText, span.Answer); i >= 0 && span.Answer != "" {
		ans.Start, ans.End = i, i+len(span.Answer)
	}
	return ans, nil
}
