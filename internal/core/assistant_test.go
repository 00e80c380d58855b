// ABOUTME: Tests for the query-time assistant
// ABOUTME: Builds real artifacts with the hash embedder, then loads them through Open
package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/embedder"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/storage"
)

const manualText = `The device ships with a USB-C cable. The warranty covers manufacturing defects for two years.
Battery replacement requires a Phillips screwdriver. Customer support is available Monday to Friday.`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DocumentPath:      filepath.Join(dir, "manual.txt"),
		IndexPath:         filepath.Join(dir, "rag_index.bin"),
		MetadataPath:      filepath.Join(dir, "rag_metadata.json"),
		ChunkSize:         2000,
		ChunkOverlap:      100,
		TopK:              3,
		EmbeddingProvider: config.EmbeddingHash,
		HashDimension:     64,
		QAProvider:        config.QALexical,
		Timeout:           5 * time.Second,
		Port:              5000,
	}
}

func buildFromConfig(t *testing.T, cfg *config.Config, text string) {
	t.Helper()
	if err := os.WriteFile(cfg.DocumentPath, []byte(text), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	chunker, err := NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		t.Fatalf("NewChunker() error = %v", err)
	}
	store, err := storage.Open(cfg.MetadataPath)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	defer store.Close()

	b := NewBuilder(chunker, embedder.NewHash(cfg.HashDimension))
	_, err = b.Build(context.Background(), BuildRequest{
		DocumentPath: cfg.DocumentPath,
		IndexPath:    cfg.IndexPath,
		ManifestPath: cfg.ManifestPath(),
		Metadata:     store,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
}

func TestOpen_AskEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	buildFromConfig(t, cfg, manualText)

	a, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer a.Close()

	if a.Manifest == nil || a.Manifest.EmbeddingModel != "hash-v1-64" {
		t.Errorf("manifest = %+v", a.Manifest)
	}
	if err := a.CheckAlignment(); err != nil {
		t.Errorf("CheckAlignment() error = %v", err)
	}

	got, err := a.Ask(context.Background(), "What screwdriver does battery replacement need?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(got, "Phillips screwdriver") {
		t.Errorf("Ask() = %q", got)
	}
	if !strings.Contains(manualText, got) {
		t.Errorf("answer %q is not a verbatim span of the document", got)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing index", func(t *testing.T) {
		cfg := testConfig(t)
		if _, err := Open(context.Background(), cfg); !errors.Is(err, ErrConfig) {
			t.Errorf("Open() error = %v, want ErrConfig", err)
		}
	})

	t.Run("embedding model changed since build", func(t *testing.T) {
		cfg := testConfig(t)
		buildFromConfig(t, cfg, manualText)
		cfg.HashDimension = 32
		_, err := Open(context.Background(), cfg)
		if !errors.Is(err, ErrConfig) || !errors.Is(err, index.ErrModelMismatch) {
			t.Errorf("Open() error = %v, want ErrConfig wrapping ErrModelMismatch", err)
		}
	})

	t.Run("invalid chunking", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.ChunkOverlap = cfg.ChunkSize
		if _, err := Open(context.Background(), cfg); !errors.Is(err, ErrConfig) {
			t.Errorf("Open() error = %v, want ErrConfig", err)
		}
	})

	t.Run("corrupt index", func(t *testing.T) {
		cfg := testConfig(t)
		buildFromConfig(t, cfg, manualText)
		if err := os.WriteFile(cfg.IndexPath, []byte("garbage"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Open(context.Background(), cfg); !errors.Is(err, ErrIntegrity) {
			t.Errorf("Open() error = %v, want ErrIntegrity", err)
		}
	})

	t.Run("index from another build", func(t *testing.T) {
		cfg := testConfig(t)
		buildFromConfig(t, cfg, manualText)
		other := testConfig(t)
		buildFromConfig(t, other, "A different one-chunk document about garden hoses.")
		copyFile(t, other.IndexPath, cfg.IndexPath)

		_, err := Open(context.Background(), cfg)
		if !errors.Is(err, ErrIntegrity) || !errors.Is(err, index.ErrBuildMismatch) {
			t.Errorf("Open() error = %v, want ErrIntegrity wrapping ErrBuildMismatch", err)
		}
	})

	t.Run("metadata from another build", func(t *testing.T) {
		cfg := testConfig(t)
		buildFromConfig(t, cfg, manualText)
		other := testConfig(t)
		other.ChunkSize, other.ChunkOverlap = 40, 10
		buildFromConfig(t, other, manualText)
		copyFile(t, other.MetadataPath, cfg.MetadataPath)

		_, err := Open(context.Background(), cfg)
		if !errors.Is(err, ErrIntegrity) || !errors.Is(err, index.ErrBuildMismatch) {
			t.Errorf("Open() error = %v, want ErrIntegrity wrapping ErrBuildMismatch", err)
		}
	})
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func newTestAssistant(t *testing.T, vectors [][]float32, chunks []string, emb *fakeEmbedder, ans *fakeAnswerer) *Assistant {
	t.Helper()
	idx, err := index.Build(vectors)
	if err != nil {
		t.Fatalf("index.Build() error = %v", err)
	}
	return &Assistant{
		Embedder: emb,
		Answerer: ans,
		Index:    idx,
		Metadata: &storage.Metadata{Chunks: chunks},
		TopK:     3,
	}
}

func TestAssistant_Ask(t *testing.T) {
	emb := &fakeEmbedder{query: []float32{0, 0}}
	ans := &fakeAnswerer{}
	a := newTestAssistant(t, [][]float32{{2, 0}, {1, 0}}, []string{"second", "first"}, emb, ans)

	got, err := a.Ask(context.Background(), "  where?  ")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != "first\n\nsecond" {
		t.Errorf("Ask() = %q, answer text must pass through unchanged", got)
	}
	if ans.calls.Load() != 1 || ans.lastCtx != "first\n\nsecond" {
		t.Errorf("answerer calls = %d, context = %q", ans.calls.Load(), ans.lastCtx)
	}
}

func TestAssistant_EmptyContextSkipsAnswerer(t *testing.T) {
	ans := &fakeAnswerer{}
	a := newTestAssistant(t, nil, nil, &fakeEmbedder{}, ans)

	_, err := a.Ask(context.Background(), "anything?")
	if !errors.Is(err, ErrNoContext) {
		t.Fatalf("Ask() error = %v, want ErrNoContext", err)
	}
	if ans.calls.Load() != 0 {
		t.Error("answerer must not be called without context")
	}
}

func TestAssistant_BlankQuestion(t *testing.T) {
	emb := &fakeEmbedder{}
	ans := &fakeAnswerer{}
	a := newTestAssistant(t, [][]float32{{1, 1}}, []string{"x"}, emb, ans)

	_, err := a.Ask(context.Background(), "")
	if !IsUserError(err) {
		t.Fatalf("Ask(\"\") error = %v, want user error", err)
	}
	if emb.queryCalls.Load() != 0 || ans.calls.Load() != 0 {
		t.Error("no capability should run for a blank question")
	}
}

func TestAssistant_AnswererFailure(t *testing.T) {
	a := newTestAssistant(t, [][]float32{{1, 1}}, []string{"x"}, &fakeEmbedder{query: []float32{1, 1}}, &fakeAnswerer{fail: true})

	_, err := a.Ask(context.Background(), "q")
	var ce *CapabilityError
	if !errors.As(err, &ce) || ce.Capability != "answerer" {
		t.Fatalf("Ask() error = %v, want answerer CapabilityError", err)
	}
	if !errors.Is(err, errBoom) || !errors.Is(err, ErrCapability) {
		t.Errorf("error should wrap both the cause and ErrCapability: %v", err)
	}
}

func TestAssistant_CheckAlignment(t *testing.T) {
	a := newTestAssistant(t, [][]float32{{1, 1}, {2, 2}}, []string{"only one"}, &fakeEmbedder{}, &fakeAnswerer{})
	if err := a.CheckAlignment(); !errors.Is(err, ErrIntegrity) {
		t.Errorf("CheckAlignment() error = %v, want ErrIntegrity", err)
	}
}
