// ABOUTME: Spreadsheet text extraction
// ABOUTME: Each sheet is a page; rows become tab-separated lines under a sheet heading
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/docqa/internal/models"
	"github.com/xuri/excelize/v2"
)

// XLSX extracts every non-empty sheet
func XLSX(ctx context.Context, path string) (*models.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		var b strings.Builder
		b.WriteString("# ")
		b.WriteString(sheet)
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			b.WriteString("\n")
			b.WriteString(line)
		}
		pages = append(pages, b.String())
	}

	return &models.Document{Source: path, Pages: len(pages), Text: joinPages(pages)}, nil
}
