// ABOUTME: PDF text extraction page by page
// ABOUTME: Uses ledongthuc/pdf plain-text rendering; image-only pages yield empty text
package extract

import (
	"context"
	"fmt"

	"github.com/harper/docqa/internal/models"
	"github.com/ledongthuc/pdf"
)

// PDF extracts the plain text of every page
func PDF(ctx context.Context, path string) (*models.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return &models.Document{Source: path, Pages: len(pages), Text: joinPages(pages)}, nil
}
