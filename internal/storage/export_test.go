// ABOUTME: Tests for exporting chunk texts
// ABOUTME: YAML round-trips through yaml.v3; Markdown keeps every chunk verbatim
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleExport() *ExportData {
	meta := &Metadata{Chunks: []string{"first chunk", "segundo fragmento\ncon línea"}}
	return NewExport(meta, &ExportBuild{BuildID: "b1", Source: "manual.pdf", EmbeddingModel: "hash-v1-64", Dimension: 64, ChunkSize: 700, ChunkOverlap: 100, Rows: 2})
}

func TestExport_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleExport().WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	var got ExportData
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(got.Chunks) != 2 || got.Chunks[1].Text != "segundo fragmento\ncon línea" {
		t.Errorf("chunks = %+v", got.Chunks)
	}
	if got.Chunks[1].Chars != 27 {
		t.Errorf("Chars = %d, want rune count 27", got.Chunks[1].Chars)
	}
	if got.Build == nil || got.Build.BuildID != "b1" {
		t.Errorf("build = %+v", got.Build)
	}
}

func TestExport_Markdown(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleExport().WriteMarkdown(&buf); err != nil {
		t.Fatalf("WriteMarkdown() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"## Build", "hash-v1-64 (dim 64)", "## Chunks (2)", "### Row 1", "segundo fragmento\ncon línea\n```"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{ExportYAML, ExportMarkdown} {
		path := filepath.Join(dir, "nested", "export."+format)
		if err := ExportToFile(sampleExport(), path, format); err != nil {
			t.Fatalf("ExportToFile(%s) error = %v", format, err)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s export not written: %v", format, err)
		}
	}

	if err := ExportToFile(sampleExport(), filepath.Join(dir, "x.txt"), "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}
