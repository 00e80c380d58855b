// ABOUTME: Tests for the OpenAI embedder using a fake embeddings client
// ABOUTME: Verifies ordering by response index, batching and count validation
package embedder

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeEmbeddingsAPI struct {
	calls   int
	reverse bool
	drop    bool
	err     error
}

func (f *fakeEmbeddingsAPI) CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.EmbeddingResponse{}, f.err
	}
	req := conv.Convert()
	inputs := req.Input.([]string)

	data := make([]openai.Embedding, 0, len(inputs))
	for i, in := range inputs {
		data = append(data, openai.Embedding{Index: i, Embedding: []float32{float32(len(in)), float32(i)}})
	}
	if f.reverse {
		for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
			data[i], data[j] = data[j], data[i]
		}
	}
	if f.drop && len(data) > 0 {
		data = data[:len(data)-1]
	}
	return openai.EmbeddingResponse{Data: data}, nil
}

func newFakeOpenAI(api embeddingsAPI) *OpenAI {
	return &OpenAI{client: api, model: "text-embedding-3-small"}
}

func TestOpenAI_RestoresOrder(t *testing.T) {
	api := &fakeEmbeddingsAPI{reverse: true}
	e := newFakeOpenAI(api)

	vecs, err := e.EmbedDocuments(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}
	for i, want := range []float32{1, 2, 3} {
		if vecs[i][0] != want {
			t.Errorf("vector %d = %v, want first component %v", i, vecs[i], want)
		}
	}
}

func TestOpenAI_Batches(t *testing.T) {
	api := &fakeEmbeddingsAPI{}
	e := newFakeOpenAI(api)

	texts := make([]string, maxBatch*2+5)
	for i := range texts {
		texts[i] = "x"
	}
	vecs, err := e.EmbedDocuments(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedDocuments() error = %v", err)
	}
	if len(vecs) != len(texts) {
		t.Errorf("len(vecs) = %d, want %d", len(vecs), len(texts))
	}
	if api.calls != 3 {
		t.Errorf("calls = %d, want 3", api.calls)
	}
}

func TestOpenAI_CountMismatch(t *testing.T) {
	e := newFakeOpenAI(&fakeEmbeddingsAPI{drop: true})

	if _, err := e.EmbedDocuments(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when provider drops a vector")
	}
}

func TestOpenAI_PropagatesErrorWithoutRetry(t *testing.T) {
	sentinel := errors.New("rate limited")
	api := &fakeEmbeddingsAPI{err: sentinel}
	e := newFakeOpenAI(api)

	_, err := e.EmbedQuery(context.Background(), "q")
	if !errors.Is(err, sentinel) {
		t.Errorf("EmbedQuery() error = %v, want wrapped sentinel", err)
	}
	if api.calls != 1 {
		t.Errorf("calls = %d, want 1 with zero retries", api.calls)
	}
}

func TestNewOpenAI_RequiresKeyAndModel(t *testing.T) {
	if _, err := NewOpenAI(&OpenAIConfig{Model: "m"}); err == nil {
		t.Error("expected error without API key")
	}
	if _, err := NewOpenAI(&OpenAIConfig{APIKey: "k"}); err == nil {
		t.Error("expected error without model")
	}
	e, err := NewOpenAI(&OpenAIConfig{APIKey: "k", Model: "text-embedding-3-large"})
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if e.ModelID() != "text-embedding-3-large" {
		t.Errorf("ModelID() = %q", e.ModelID())
	}
}
