// ABOUTME: Test runner for RAGAS-style benchmarks over one indexed document
// ABOUTME: Builds a throwaway index, asks each scenario question and scores the results

package ragas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/embedder"
	"github.com/harper/docqa/internal/storage"
)

// BenchmarkRunner executes benchmark suites against the configured providers
type BenchmarkRunner struct {
	base    config.Config
	metrics *MetricsCalculator
	verbose bool
}

// NewBenchmarkRunner creates a runner. Paths and chunking in cfg are replaced per suite.
func NewBenchmarkRunner(cfg *config.Config, verbose bool) *BenchmarkRunner {
	return &BenchmarkRunner{
		base:    *cfg,
		metrics: NewMetricsCalculator(),
		verbose: verbose,
	}
}

// RunSuite indexes the suite document in a temp directory and runs every scenario,
// or only the one named by onlyID when it is set
func (r *BenchmarkRunner) RunSuite(ctx context.Context, suite *Suite, onlyID string) ([]TestResult, error) {
	scenarios := suite.Scenarios
	if onlyID != "" {
		sc, ok := suite.Scenario(onlyID)
		if !ok {
			return nil, fmt.Errorf("unknown test ID: %s", onlyID)
		}
		scenarios = []TestScenario{sc}
	}

	tmpDir, err := os.MkdirTemp("", "docqa_bench_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg, err := r.prepare(suite, tmpDir)
	if err != nil {
		return nil, err
	}
	if err := r.buildIndex(ctx, cfg); err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	assistant, err := core.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer assistant.Close()

	results := make([]TestResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		results = append(results, r.RunTest(ctx, assistant, scenario))
	}
	return results, nil
}

// prepare derives the per-suite configuration and materializes inline text
func (r *BenchmarkRunner) prepare(suite *Suite, dir string) (*config.Config, error) {
	cfg := r.base
	cfg.IndexPath = filepath.Join(dir, "rag_index.bin")
	cfg.MetadataPath = filepath.Join(dir, "rag_metadata.json")
	if suite.ChunkSize > 0 {
		cfg.ChunkSize = suite.ChunkSize
	}
	if suite.ChunkOverlap > 0 || suite.ChunkSize > 0 {
		cfg.ChunkOverlap = suite.ChunkOverlap
	}
	if suite.TopK > 0 {
		cfg.TopK = suite.TopK
	}

	cfg.DocumentPath = suite.Document
	if cfg.DocumentPath == "" {
		cfg.DocumentPath = filepath.Join(dir, "document.txt")
		if err := os.WriteFile(cfg.DocumentPath, []byte(suite.Text), 0644); err != nil {
			return nil, fmt.Errorf("failed to write suite text: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *BenchmarkRunner) buildIndex(ctx context.Context, cfg *config.Config) error {
	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	emb, err := embedder.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer embedder.Close(emb)
	store, err := storage.Open(cfg.MetadataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	builder := core.NewBuilder(chunker, emb)
	builder.Timeout = cfg.Timeout
	manifest, err := builder.Build(ctx, core.BuildRequest{
		DocumentPath: cfg.DocumentPath,
		IndexPath:    cfg.IndexPath,
		ManifestPath: cfg.ManifestPath(),
		Metadata:     store,
	})
	if err != nil {
		return err
	}
	if r.verbose {
		fmt.Printf("Indexed %d chunks with %s\n", manifest.Rows, manifest.EmbeddingModel)
	}
	return nil
}

// RunTest asks one scenario question and evaluates the answer and retrieved context
func (r *BenchmarkRunner) RunTest(ctx context.Context, assistant *core.Assistant, scenario TestScenario) TestResult {
	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RUNNING: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Question: %s\n", scenario.Question)
	}

	passages, err := assistant.Passages(ctx, scenario.Question, 0)
	if err != nil {
		return failed(scenario, err)
	}
	obs := Observation{Passages: passages}

	ans, err := assistant.Answer(ctx, scenario.Question)
	switch {
	case errors.Is(err, core.ErrNoContext):
		obs.Answer, obs.NoContext = core.NoContextAnswer, true
	case err != nil:
		return failed(scenario, err)
	default:
		obs.Answer = ans.Text
	}

	result := r.metrics.EvaluateTest(scenario, obs)

	if r.verbose {
		fmt.Printf("Answer: %s\n", obs.Answer)
		fmt.Printf("Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("Context Recall: %.2f (MRR %.2f)\n", result.ContextRecallScore, result.ReciprocalRank)
		fmt.Printf("Status: %s\n", result.Status)
	}
	return result
}

func failed(scenario TestScenario, err error) TestResult {
	return TestResult{
		TestID:       scenario.ID,
		TestName:     scenario.Name,
		Status:       "FAIL",
		ErrorMessage: err.Error(),
	}
}

// ExportResults exports test results to JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	passed := 0
	for _, result := range results {
		if result.Status == "PASS" {
			passed++
		}
	}

	summary := map[string]interface{}{
		"timestamp":   time.Now().Format(time.RFC3339),
		"embedding":   r.base.EmbeddingProvider,
		"answerer":    r.base.QAProvider,
		"total_tests": len(results),
		"passed":      passed,
		"failed":      len(results) - passed,
		"results":     results,
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	return nil
}
