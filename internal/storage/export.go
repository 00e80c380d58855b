// ABOUTME: Export of the indexed chunk texts with their build information
// ABOUTME: Supports YAML and Markdown export formats
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Export formats
const (
	ExportYAML     = "yaml"
	ExportMarkdown = "markdown"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string        `yaml:"version" json:"version"`
	ExportedAt string        `yaml:"exported_at" json:"exported_at"`
	Tool       string        `yaml:"tool" json:"tool"`
	Build      *ExportBuild  `yaml:"build,omitempty" json:"build,omitempty"`
	Chunks     []ExportChunk `yaml:"chunks" json:"chunks"`
}

// ExportBuild describes how the index was built
type ExportBuild struct {
	BuildID        string `yaml:"build_id" json:"build_id"`
	Source         string `yaml:"source" json:"source"`
	EmbeddingModel string `yaml:"embedding_model" json:"embedding_model"`
	Dimension      int    `yaml:"dimension" json:"dimension"`
	ChunkSize      int    `yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap" json:"chunk_overlap"`
	Rows           int    `yaml:"rows" json:"rows"`
}

// ExportChunk is one row of the metadata store
type ExportChunk struct {
	Row   int    `yaml:"row" json:"row"`
	Chars int    `yaml:"chars" json:"chars"`
	Text  string `yaml:"text" json:"text"`
}

// NewExport collects the chunk texts; build may be nil when no manifest exists
func NewExport(meta *Metadata, build *ExportBuild) *ExportData {
	data := &ExportData{
		Version:    "1",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Tool:       "docqa",
		Build:      build,
		Chunks:     make([]ExportChunk, 0, meta.Len()),
	}
	for i := 0; i < meta.Len(); i++ {
		text, _ := meta.Text(i)
		data.Chunks = append(data.Chunks, ExportChunk{Row: i, Chars: utf8.RuneCountInString(text), Text: text})
	}
	return data
}

// WriteYAML encodes the export as YAML
func (d *ExportData) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMarkdown renders the export as a readable document
func (d *ExportData) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Index Export - %s\n\n", d.ExportedAt)

	if d.Build != nil {
		b.WriteString("## Build\n\n")
		b.WriteString("| Field | Value |\n")
		b.WriteString("|-------|-------|\n")
		fmt.Fprintf(&b, "| Build ID | %s |\n", d.Build.BuildID)
		fmt.Fprintf(&b, "| Source | %s |\n", d.Build.Source)
		fmt.Fprintf(&b, "| Embedding model | %s (dim %d) |\n", d.Build.EmbeddingModel, d.Build.Dimension)
		fmt.Fprintf(&b, "| Chunking | size %d, overlap %d |\n", d.Build.ChunkSize, d.Build.ChunkOverlap)
		fmt.Fprintf(&b, "| Rows | %d |\n\n", d.Build.Rows)
	}

	fmt.Fprintf(&b, "## Chunks (%d)\n\n", len(d.Chunks))
	for _, c := range d.Chunks {
		fmt.Fprintf(&b, "### Row %d (%d chars)\n\n", c.Row, c.Chars)
		b.WriteString("```text\n")
		b.WriteString(c.Text)
		if !strings.HasSuffix(c.Text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportToFile writes the export in format to outputPath
func ExportToFile(d *ExportData, outputPath, format string) error {
	write := d.WriteYAML
	switch format {
	case ExportYAML:
	case ExportMarkdown:
		write = d.WriteMarkdown
	default:
		return fmt.Errorf("unknown export format %q (use yaml or markdown)", format)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
