// ABOUTME: Command-line benchmark runner for retrieval and answer quality
// ABOUTME: Executes a YAML suite (or the built-in one) and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harper/docqa/benchmarks/ragas"
	"github.com/harper/docqa/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	// Command-line flags
	suitePath := flag.String("suite", "", "YAML suite file. If empty, runs the built-in manual suite.")
	testID := flag.String("test", "", "Run a single scenario by id. If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil && *verbose {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	suite := ragas.DefaultSuite()
	if *suitePath != "" {
		suite, err = ragas.LoadSuite(*suitePath)
		if err != nil {
			log.Fatalf("Failed to load suite: %v", err)
		}
	}

	// Print header
	fmt.Println("========================================")
	fmt.Printf("docqa benchmarks: %s\n", suite.Name)
	fmt.Printf("embedding=%s answerer=%s\n", cfg.EmbeddingProvider, cfg.QAProvider)
	fmt.Println("========================================")

	runner := ragas.NewBenchmarkRunner(cfg, *verbose)
	results, err := runner.RunSuite(context.Background(), suite, *testID)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	// Print summary
	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	passed := 0
	failed := 0

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		}
		fmt.Printf("  Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("  Reciprocal Rank: %.2f\n", result.ReciprocalRank)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)

		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", len(results))
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	// Export results
	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("Results exported to: %s\n", *outputPath)

	// Exit with error code if any tests failed
	if failed > 0 {
		os.Exit(1)
	}
}
