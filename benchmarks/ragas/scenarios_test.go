// ABOUTME: Tests for loading and validating benchmark suites
// ABOUTME: Uses temp YAML files

package ragas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSuite(t *testing.T) {
	dir := t.TempDir()
	suiteYAML := `name: manual
document: docs/manual.txt
chunk_size: 300
chunk_overlap: 50
scenarios:
  - id: warranty
    name: Warranty
    question: How long is the warranty?
    ground_truth:
      expected_in_response: ["two years"]
      forbidden_in_response: ["three hours"]
      expected_context_items: ["warranty"]
`
	path := filepath.Join(dir, "suite.yaml")
	if err := os.WriteFile(path, []byte(suiteYAML), 0644); err != nil {
		t.Fatal(err)
	}

	suite, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("LoadSuite() error = %v", err)
	}
	if suite.Document != filepath.Join(dir, "docs", "manual.txt") {
		t.Errorf("Document = %q, want path relative to the suite file", suite.Document)
	}
	if suite.ChunkSize != 300 || suite.ChunkOverlap != 50 {
		t.Errorf("chunking = %d/%d", suite.ChunkSize, suite.ChunkOverlap)
	}
	sc, ok := suite.Scenario("warranty")
	if !ok {
		t.Fatal("scenario warranty not found")
	}
	if len(sc.GroundTruth.ForbiddenInResponse) != 1 || sc.GroundTruth.ExpectedInResponse[0] != "two years" {
		t.Errorf("ground truth = %+v", sc.GroundTruth)
	}
}

func TestSuiteValidate(t *testing.T) {
	q := TestScenario{ID: "a", Question: "q?"}

	tests := []struct {
		name    string
		suite   Suite
		wantErr string
	}{
		{"no document", Suite{Scenarios: []TestScenario{q}}, "document"},
		{"no scenarios", Suite{Text: "x"}, "no scenarios"},
		{"missing id", Suite{Text: "x", Scenarios: []TestScenario{{Question: "q"}}}, "no id"},
		{"duplicate id", Suite{Text: "x", Scenarios: []TestScenario{q, q}}, "duplicate"},
		{"missing question", Suite{Text: "x", Scenarios: []TestScenario{{ID: "a"}}}, "no question"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.suite.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if err := DefaultSuite().Validate(); err != nil {
		t.Errorf("DefaultSuite().Validate() error = %v", err)
	}
}
