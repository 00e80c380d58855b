// ABOUTME: Exact flat vector index with squared-L2 k-nearest-neighbour search
// ABOUTME: Rows are immutable after Build; row id equals position in the input
package index

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/harper/docqa/internal/models"
)

// ErrDimensionMismatch is returned when vectors or queries disagree on dimensionality
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Flat stores vectors row-major and scans all of them on every search.
// It is read-only after Build or Load and safe for concurrent searches.
type Flat struct {
	dim  int
	rows int
	data []float32
}

// Build copies vectors into a new index. All vectors must share one dimension.
// An empty input yields an empty index.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return &Flat{}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: row 0 is empty", ErrDimensionMismatch)
	}

	data := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has %d dimensions, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		data = append(data, v...)
	}

	return &Flat{dim: dim, rows: len(vectors), data: data}, nil
}

// Len returns the number of rows
func (f *Flat) Len() int {
	return f.rows
}

// Dim returns the vector dimension, 0 for an empty index
func (f *Flat) Dim() int {
	return f.dim
}

// Search returns up to k rows nearest to query, closest first.
// Equal distances are ordered by lower row id.
func (f *Flat) Search(query []float32, k int) ([]models.Hit, error) {
	if k <= 0 || f.rows == 0 {
		return []models.Hit{}, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}

	k = min(k, f.rows)
	h := make(hitHeap, 0, k)
	for row := 0; row < f.rows; row++ {
		hit := models.Hit{Row: row, Distance: squaredL2(query, f.data[row*f.dim:(row+1)*f.dim])}
		if len(h) < k {
			heap.Push(&h, hit)
			continue
		}
		if closer(hit, h[0]) {
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}

	out := make([]models.Hit, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(models.Hit)
	}
	return out, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(sum)
}

// closer reports whether a ranks ahead of b
func closer(a, b models.Hit) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Row < b.Row
}

// hitHeap is a max-heap on rank: the root is the worst of the current top k
type hitHeap []models.Hit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return closer(h[j], h[i]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *hitHeap) Push(x any) { *h = append(*h, x.(models.Hit)) }

func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
