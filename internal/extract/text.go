// ABOUTME: Plain text extraction with byte-order-mark handling
// ABOUTME: UTF-16 files with a BOM are transcoded; UTF-8 BOMs are stripped
package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/harper/docqa/internal/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Text reads a text file as a single page
func Text(ctx context.Context, path string) (*models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return &models.Document{Source: path, Pages: 1, Text: decodeText(data)}, nil
}

// decodeText honours a UTF-8 or UTF-16 byte-order mark and assumes UTF-8 otherwise
func decodeText(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
