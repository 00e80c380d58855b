// ABOUTME: Benchmark suite definitions for retrieval and answer quality
// ABOUTME: Suites load from YAML; a built-in suite covers a small product manual

package ragas

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Suite is one document plus the questions asked about it
type Suite struct {
	Name string `yaml:"name"`
	// Document is a file path, resolved relative to the suite file
	Document string `yaml:"document"`
	// Text is used when Document is empty
	Text         string         `yaml:"text"`
	ChunkSize    int            `yaml:"chunk_size"`
	ChunkOverlap int            `yaml:"chunk_overlap"`
	TopK         int            `yaml:"top_k"`
	Scenarios    []TestScenario `yaml:"scenarios"`
}

// TestScenario is a single question with its ground truth
type TestScenario struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Question    string      `yaml:"question"`
	GroundTruth GroundTruth `yaml:"ground_truth"`
}

// GroundTruth defines expected outcomes for evaluation
type GroundTruth struct {
	ExpectedInResponse  []string `yaml:"expected_in_response"`  // Strings that MUST appear in the answer
	ForbiddenInResponse []string `yaml:"forbidden_in_response"` // Strings that MUST NOT appear in the answer

	// Context retrieval expectations
	ExpectedContextItems []string `yaml:"expected_context_items"`
}

// TestResult represents the outcome of a benchmark test
type TestResult struct {
	TestID             string                 `json:"test_id"`
	TestName           string                 `json:"test_name"`
	FaithfulnessScore  float64                `json:"faithfulness"`
	ContextRecallScore float64                `json:"context_recall"`
	ReciprocalRank     float64                `json:"reciprocal_rank"`
	OverallScore       float64                `json:"overall"`
	Status             string                 `json:"status"` // "PASS" or "FAIL"
	Details            map[string]interface{} `json:"details,omitempty"`
	ErrorMessage       string                 `json:"error,omitempty"`
}

// LoadSuite reads a YAML suite file
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite: %w", err)
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite %s: %w", path, err)
	}
	if suite.Document != "" && !filepath.IsAbs(suite.Document) {
		suite.Document = filepath.Join(filepath.Dir(path), suite.Document)
	}
	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return &suite, nil
}

// Validate checks that the suite has a document and uniquely named questions
func (s *Suite) Validate() error {
	if s.Document == "" && s.Text == "" {
		return fmt.Errorf("suite needs a document or inline text")
	}
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("suite has no scenarios")
	}
	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if sc.ID == "" {
			return fmt.Errorf("scenario %d has no id", i)
		}
		if seen[sc.ID] {
			return fmt.Errorf("duplicate scenario id %q", sc.ID)
		}
		seen[sc.ID] = true
		if sc.Question == "" {
			return fmt.Errorf("scenario %s has no question", sc.ID)
		}
	}
	return nil
}

// Scenario returns the scenario with id
func (s *Suite) Scenario(id string) (TestScenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return TestScenario{}, false
}

// DefaultSuite returns the built-in product manual suite
func DefaultSuite() *Suite {
	return &Suite{
		Name: "product-manual",
		Text: `Getting started. Charge the device for three hours before first use. The charging light turns green when the battery is full.

Warranty. The warranty covers manufacturing defects for two years from the date of purchase. Water damage is not covered by the warranty.

Battery replacement. Battery replacement requires a Phillips screwdriver and takes about ten minutes. Never use metal tweezers near the battery terminals.

Support. Customer support is available Monday to Friday from 9:00 to 17:00. Spanish-speaking agents can be reached at extension 4.

Mantenimiento. Limpie la pantalla con un paño de microfibra seco. No utilice productos con alcohol.`,
		ChunkSize:    200,
		ChunkOverlap: 40,
		TopK:         3,
		Scenarios: []TestScenario{
			{
				ID:       "warranty",
				Name:     "Warranty duration",
				Question: "How long does the warranty cover manufacturing defects?",
				GroundTruth: GroundTruth{
					ExpectedInResponse:   []string{"two years"},
					ForbiddenInResponse:  []string{"three hours"},
					ExpectedContextItems: []string{"manufacturing defects"},
				},
			},
			{
				ID:       "battery-tool",
				Name:     "Battery replacement tool",
				Question: "Which screwdriver does battery replacement require?",
				GroundTruth: GroundTruth{
					ExpectedInResponse:   []string{"Phillips"},
					ExpectedContextItems: []string{"Phillips screwdriver"},
				},
			},
			{
				ID:       "support-hours",
				Name:     "Support availability",
				Question: "When is customer support available?",
				GroundTruth: GroundTruth{
					ExpectedInResponse:   []string{"Monday to Friday"},
					ExpectedContextItems: []string{"Monday to Friday"},
				},
			},
			{
				ID:          "cleaning-es",
				Name:        "Cleaning instructions (Spanish)",
				Description: "Accent-folded matching of a Spanish question",
				Question:    "¿Con qué paño se limpia la pantalla?",
				GroundTruth: GroundTruth{
					ExpectedInResponse:   []string{"microfibra"},
					ExpectedContextItems: []string{"microfibra"},
				},
			},
		},
	}
}
