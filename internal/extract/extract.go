// ABOUTME: Text extraction registry keyed by file extension
// ABOUTME: Multi-page sources are joined with a newline after each page
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harper/docqa/internal/models"
)

// Extractor turns a file into plain text
type Extractor interface {
	Extract(ctx context.Context, path string) (*models.Document, error)
}

// ExtractorFunc adapts a function to Extractor
type ExtractorFunc func(ctx context.Context, path string) (*models.Document, error)

// Extract calls f
func (f ExtractorFunc) Extract(ctx context.Context, path string) (*models.Document, error) {
	return f(ctx, path)
}

// Registry picks an extractor by lowercase extension, falling back to plain text
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
}

// NewRegistry returns a registry with the built-in extractors
func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]Extractor{}, fallback: ExtractorFunc(Text)}
	r.Register(ExtractorFunc(PDF), ".pdf")
	r.Register(ExtractorFunc(XLSX), ".xlsx", ".xlsm")
	r.Register(ExtractorFunc(HTML), ".html", ".htm")
	r.Register(ExtractorFunc(Text), ".txt", ".md", ".markdown", ".csv")
	return r
}

// Register binds e to each extension
func (r *Registry) Register(e Extractor, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Extract dispatches on the extension of path
func (r *Registry) Extract(ctx context.Context, path string) (*models.Document, error) {
	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		e = r.fallback
	}
	doc, err := e.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	return doc, nil
}

// joinPages appends a newline after every page
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}
