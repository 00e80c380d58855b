// ABOUTME: Retrieval models returned by the vector index and retriever
// ABOUTME: Defines Hit, Passage and Answer structures
package models

// Hit is a single nearest-neighbour result from the vector index
type Hit struct {
	Row      int     `json:"row"`
	Distance float32 `json:"distance"`
}

// Passage is a retrieved chunk together with its distance to the query
type Passage struct {
	Row      int     `json:"row"`
	Distance float32 `json:"distance"`
	Text     string  `json:"text"`
}

// Answer is the answerer's output. Text is surfaced to callers verbatim.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score,omitempty"`
	Start int     `json:"start,omitempty"`
	End   int     `json:"end,omitempty"`
}

// Document is extracted source text ready to be chunked
type Document struct {
	Source string `json:"source"`
	Pages  int    `json:"pages"`
	Text   string `json:"text"`
}
