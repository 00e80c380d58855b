// ABOUTME: OpenAI chat client for extractive question answering
// ABOUTME: Asks the model for a verbatim span of the supplied context as JSON
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harper/docqa/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultChatModel is the default model for chat completions
const DefaultChatModel = "gpt-4o-mini"

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	ChatModel  string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  DefaultChatModel,
		RetryDelay: 2 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// chatAPI is the part of the go-openai client used here
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     chatAPI
	chatModel  string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// Span is the model's extracted answer
type Span struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	model := config.ChatModel
	if model == "" {
		model = DefaultChatModel
	}

	return &OpenAIClient{
		client:     openai.NewClient(config.APIKey),
		chatModel:  model,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		timeout:    config.Timeout,
	}, nil
}

// Model returns the chat model name
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

const extractSystemPrompt = `You are an extractive question answering model.
Given a question and a context, return the shortest contiguous span copied verbatim from the context that answers the question.
Do not paraphrase, translate, or add words that are not in the context.
Return ONLY a JSON object: {"answer": "<span>", "confidence": <0.0 to 1.0>}.
If the context does not contain the answer, pick the most relevant span and give it a low confidence.`

// ExtractSpan asks the model for the answer span of question within contextText
func (c *OpenAIClient) ExtractSpan(ctx context.Context, question, contextText string) (*Span, error) {
	userPrompt := fmt.Sprintf("Question: %s\n\nContext:\n%s", question, contextText)

	var span Span
	err := util.Retry(ctx, c.maxRetries, c.retryDelay, c.timeout, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: extractSystemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if err := json.Unmarshal([]byte(content), &span); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract answer: %w", err)
	}
	return &span, nil
}
