// ABOUTME: End-to-end CLI tests with the local hash embedder and lexical answerer
// ABOUTME: Runs build-index, ask, retrieve and inspect against temp artifacts

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testManual = `The device ships with a USB-C cable. The warranty covers manufacturing defects for two years.
Battery replacement requires a Phillips screwdriver. Customer support is available Monday to Friday.`

func setupEnv(t *testing.T, metadataName string) (dir, doc string) {
	t.Helper()
	dir = t.TempDir()
	doc = filepath.Join(dir, "manual.txt")
	if err := os.WriteFile(doc, []byte(testManual), 0644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{
		"DOCQA_DOCUMENT":      "",
		"DOCQA_INDEX_PATH":    filepath.Join(dir, "rag_index.bin"),
		"DOCQA_METADATA_PATH": filepath.Join(dir, metadataName),
		"EMBEDDING_PROVIDER":  "hash",
		"HASH_DIMENSION":      "128",
		"QA_PROVIDER":         "lexical",
		"CHUNK_SIZE":          "2000",
		"CHUNK_OVERLAP":       "100",
		"EMBED_CACHE_SIZE":    "0",
		"REDIS_ADDR":          "",
		"OPENAI_API_KEY":      "",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	return dir, doc
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--quiet"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPipeline(t *testing.T) {
	for _, metadataName := range []string{"rag_metadata.json", "rag_metadata.db"} {
		t.Run(metadataName, func(t *testing.T) {
			_, doc := setupEnv(t, metadataName)

			if _, err := run(t, "build-index", doc); err != nil {
				t.Fatalf("build-index error = %v", err)
			}

			out, err := run(t, "--format", "json", "ask", "Which screwdriver for the battery?")
			if err != nil {
				t.Fatalf("ask error = %v", err)
			}
			var answer struct {
				Answer string `json:"answer"`
			}
			if err := json.Unmarshal([]byte(out), &answer); err != nil {
				t.Fatalf("ask output not JSON: %v\n%s", err, out)
			}
			if !strings.Contains(answer.Answer, "Phillips screwdriver") {
				t.Errorf("answer = %q", answer.Answer)
			}

			out, err = run(t, "retrieve", "--k", "5", "warranty")
			if err != nil {
				t.Fatalf("retrieve error = %v", err)
			}
			if !strings.Contains(out, "RANK") || !strings.Contains(out, "USB-C") {
				t.Errorf("retrieve output = %s", out)
			}

			out, err = run(t, "--format", "json", "inspect", "--chunks", "1")
			if err != nil {
				t.Fatalf("inspect error = %v", err)
			}
			var report IndexReport
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				t.Fatalf("inspect output not JSON: %v\n%s", err, out)
			}
			if report.Rows != 1 || !report.Aligned || !report.ChecksumValid || report.Manifest == nil {
				t.Errorf("report = %+v", report)
			}
			if strings.HasSuffix(metadataName, ".db") {
				if report.StoreInfo["rows"] != "1" || report.StoreInfo["updated_at"] == "" {
					t.Errorf("store info = %v", report.StoreInfo)
				}
			} else if report.StoreInfo != nil {
				t.Errorf("JSON store reported store info %v", report.StoreInfo)
			}
			exportPath := filepath.Join(t.TempDir(), "chunks.md")
			if _, err := run(t, "export", exportPath); err != nil {
				t.Fatalf("export error = %v", err)
			}
			exported, err := os.ReadFile(exportPath)
			if err != nil || !strings.Contains(string(exported), "## Chunks (1)") {
				t.Errorf("export content = %q, err %v", exported, err)
			}

			if report.Dimension != 128 || report.Manifest.EmbeddingModel != "hash-v1-128" {
				t.Errorf("dimension %d, model %q", report.Dimension, report.Manifest.EmbeddingModel)
			}
		})
	}
}

func TestBuildIndex_Errors(t *testing.T) {
	dir, doc := setupEnv(t, "rag_metadata.json")

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("  \n "), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"no document", []string{"build-index"}},
		{"empty document", []string{"build-index", empty}},
		{"overlap not smaller than size", []string{"build-index", "--chunk-size", "10", "--overlap", "10", doc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAsk_WithoutIndex(t *testing.T) {
	setupEnv(t, "rag_metadata.json")
	if _, err := run(t, "ask", "anything"); err == nil || !strings.Contains(err.Error(), "build-index") {
		t.Errorf("ask without index error = %v", err)
	}
}

func TestRetrieve_InvalidK(t *testing.T) {
	setupEnv(t, "rag_metadata.json")
	if _, err := run(t, "retrieve", "--k", "0", "q"); err == nil {
		t.Error("expected error for k=0")
	}
}
