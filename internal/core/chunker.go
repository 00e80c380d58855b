// ABOUTME: Chunker splits document text into fixed-size overlapping character windows
// ABOUTME: Offsets are counted in characters (runes), not bytes
package core

import (
	"fmt"
	"iter"

	"github.com/harper/docqa/internal/models"
)

// Chunker produces overlapping windows of Size characters advancing by Size-Overlap
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the window parameters. Overlap must be smaller than size,
// otherwise the start offset would never advance.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)", ErrConfig, overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the window length in characters
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of characters shared by consecutive windows
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns every window of text in order. Empty text yields no chunks.
func (c *Chunker) Split(text string) []models.Chunk {
	n := len([]rune(text))
	chunks := make([]models.Chunk, 0, c.Count(n))
	for chunk := range c.All(text) {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// All yields windows lazily. The sequence is single-use. Text no longer than
// size is a single window; otherwise a window starts every size-overlap
// characters until the start offset reaches the end of the text, so the tail
// may hold windows that lie entirely inside their predecessor.
func (c *Chunker) All(text string) iter.Seq[models.Chunk] {
	return func(yield func(models.Chunk) bool) {
		runes := []rune(text)
		n := len(runes)
		if n == 0 {
			return
		}
		if n <= c.size {
			yield(models.Chunk{Row: 0, Start: 0, End: n, Text: text})
			return
		}
		step := c.size - c.overlap
		for row, start := 0, 0; start < n; row, start = row+1, start+step {
			end := min(start+c.size, n)
			if !yield(models.Chunk{Row: row, Start: start, End: end, Text: string(runes[start:end])}) {
				return
			}
		}
	}
}

// Count returns how many chunks Split produces for a text of n characters:
// 1 when n <= size, otherwise ceil(n/(size-overlap)).
func (c *Chunker) Count(n int) int {
	if n <= 0 {
		return 0
	}
	if n <= c.size {
		return 1
	}
	step := c.size - c.overlap
	return (n + step - 1) / step
}
