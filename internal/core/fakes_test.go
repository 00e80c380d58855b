// ABOUTME: Test doubles for the embedder and answerer capabilities
// ABOUTME: Both count calls so tests can assert short-circuits
package core

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/harper/docqa/internal/models"
)

var errBoom = errors.New("boom")

// fakeEmbedder maps text to a 2-d vector: (rune count, first rune)
type fakeEmbedder struct {
	docCalls   atomic.Int32
	queryCalls atomic.Int32
	query      []float32 // fixed query vector when set
	dropOne    bool
	fail       bool
}

func (f *fakeEmbedder) vec(text string) []float32 {
	r := []rune(text)
	first := float32(0)
	if len(r) > 0 {
		first = float32(r[0])
	}
	return []float32{float32(len(r)), first}
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	f.docCalls.Add(1)
	if f.fail {
		return nil, errBoom
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, f.vec(t))
	}
	if f.dropOne && len(out) > 0 {
		out = out[1:]
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queryCalls.Add(1)
	if f.fail {
		return nil, errBoom
	}
	if f.query != nil {
		return f.query, nil
	}
	return f.vec(text), nil
}

func (f *fakeEmbedder) ModelID() string { return "fake-2d" }

// fakeAnswerer echoes the context it receives
type fakeAnswerer struct {
	calls   atomic.Int32
	lastCtx string
	fail    bool
}

func (f *fakeAnswerer) Answer(ctx context.Context, question, contextText string) (models.Answer, error) {
	f.calls.Add(1)
	f.lastCtx = contextText
	if f.fail {
		return models.Answer{}, errBoom
	}
	return models.Answer{Text: contextText, Score: 1, End: len(contextText)}, nil
}

func (f *fakeAnswerer) ModelID() string { return "fake-qa" }
