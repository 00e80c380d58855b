// ABOUTME: Chunk represents a fixed-size character window of the source document
// ABOUTME: Row numbers are shared by the chunk list, the metadata store and the vector index
package models

// Chunk is one overlapping window of document text.
// Start and End are character (rune) offsets into the source text, End exclusive.
type Chunk struct {
	Row   int    `json:"row"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the chunk length in characters
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Texts returns the chunk texts in row order
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
