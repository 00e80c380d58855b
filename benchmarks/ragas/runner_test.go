// ABOUTME: Tests for the benchmark runner with local providers
// ABOUTME: Runs the built-in suite with the hash embedder and lexical answerer

package ragas

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/docqa/internal/config"
)

func localConfig() *config.Config {
	return &config.Config{
		IndexPath:         "unused",
		MetadataPath:      "unused",
		ChunkSize:         config.DefaultChunkSize,
		ChunkOverlap:      config.DefaultChunkOverlap,
		TopK:              config.DefaultTopK,
		EmbeddingProvider: config.EmbeddingHash,
		HashDimension:     256,
		QAProvider:        config.QALexical,
		Timeout:           5 * time.Second,
		Port:              5000,
	}
}

func TestRunSuite_DefaultSuite(t *testing.T) {
	runner := NewBenchmarkRunner(localConfig(), false)
	suite := DefaultSuite()

	results, err := runner.RunSuite(context.Background(), suite, "")
	if err != nil {
		t.Fatalf("RunSuite() error = %v", err)
	}
	if len(results) != len(suite.Scenarios) {
		t.Fatalf("got %d results, want %d", len(results), len(suite.Scenarios))
	}
	for _, r := range results {
		if r.ErrorMessage != "" {
			t.Errorf("%s errored: %s", r.TestID, r.ErrorMessage)
		}
		if r.OverallScore < 0 || r.OverallScore > 1 {
			t.Errorf("%s overall = %f", r.TestID, r.OverallScore)
		}
	}

	out := filepath.Join(t.TempDir(), "results.json")
	if err := runner.ExportResults(results, out); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var summary struct {
		Total   int          `json:"total_tests"`
		Results []TestResult `json:"results"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("results file is not JSON: %v", err)
	}
	if summary.Total != len(results) || len(summary.Results) != len(results) {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRunSuite_SingleAndUnknownID(t *testing.T) {
	runner := NewBenchmarkRunner(localConfig(), false)

	results, err := runner.RunSuite(context.Background(), DefaultSuite(), "warranty")
	if err != nil {
		t.Fatalf("RunSuite() error = %v", err)
	}
	if len(results) != 1 || results[0].TestID != "warranty" {
		t.Errorf("results = %+v", results)
	}

	if _, err := runner.RunSuite(context.Background(), DefaultSuite(), "nope"); err == nil {
		t.Error("expected error for unknown scenario id")
	}
}
