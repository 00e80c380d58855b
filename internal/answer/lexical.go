// ABOUTME: Local extractive answerer scoring context sentences against the question
// ABOUTME: Uses accent-folded term overlap so it runs without any model download
package answer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/textnorm"
)

// Lexical picks the window of up to maxSentences consecutive sentences with the best
// question-term coverage, breaking ties by term density and then by position.
type Lexical struct {
	maxSentences int
}

// NewLexical creates a lexical answerer considering spans of one or two sentences
func NewLexical() *Lexical {
	return &Lexical{maxSentences: 2}
}

// ModelID identifies the scorer
func (l *Lexical) ModelID() string {
	return "lexical-v1"
}

type segment struct {
	start, end int
	tokens     []string
}

// Answer returns a verbatim span of contextText. Score is the fraction of question terms covered.
func (l *Lexical) Answer(ctx context.Context, question, contextText string) (models.Answer, error) {
	if err := ctx.Err(); err != nil {
		return models.Answer{}, err
	}

	segs := splitSentences(contextText)
	if len(segs) == 0 {
		return models.Answer{Text: strings.TrimSpace(contextText)}, nil
	}

	terms := unique(textnorm.Terms(question))
	if len(terms) == 0 {
		terms = unique(textnorm.Tokens(question))
	}

	best := models.Answer{Start: segs[0].start, End: segs[0].end}
	bestScore, bestDensity := -1.0, -1.0

	for i := range segs {
		var tokens []string
		for j := i; j < len(segs) && j-i < l.maxSentences; j++ {
			tokens = append(tokens, segs[j].tokens...)
			coverage, density := overlap(terms, tokens)
			// a longer span must cover strictly more terms to win
			if j > i && coverage <= scoreOf(segs[i], terms) {
				continue
			}
			if coverage > bestScore || (coverage == bestScore && density > bestDensity) {
				bestScore, bestDensity = coverage, density
				best = models.Answer{Score: coverage, Start: segs[i].start, End: segs[j].end}
			}
		}
	}

	best.Text = contextText[best.Start:best.End]
	return best, nil
}

func scoreOf(s segment, terms []string) float64 {
	c, _ := overlap(terms, s.tokens)
	return c
}

// overlap returns the share of terms found in tokens and the share of tokens that match a term
func overlap(terms, tokens []string) (coverage, density float64) {
	if len(terms) == 0 || len(tokens) == 0 {
		return 0, 0
	}
	covered := 0
	for _, term := range terms {
		for _, tok := range tokens {
			if similar(term, tok) {
				covered++
				break
			}
		}
	}
	hits := 0
	for _, tok := range tokens {
		for _, term := range terms {
			if similar(term, tok) {
				hits++
				break
			}
		}
	}
	return float64(covered) / float64(len(terms)), float64(hits) / float64(len(tokens))
}

// similar treats words sharing a long prefix as the same term, so plurals and verb forms match
func similar(a, b string) bool {
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	need := max(4, min(len(ra), len(rb))-1)
	if len(ra) < need || len(rb) < need {
		return false
	}
	for i := 0; i < need; i++ {
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}

// splitSentences cuts text after sentence punctuation followed by whitespace and at line breaks.
// Offsets are byte offsets into text with surrounding whitespace trimmed.
func splitSentences(text string) []segment {
	var segs []segment
	add := func(start, end int) {
		for start < end {
			r, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
		for end > start {
			r, size := utf8.DecodeLastRuneInString(text[:end])
			if !unicode.IsSpace(r) {
				break
			}
			end -= size
		}
		if start < end {
			segs = append(segs, segment{start: start, end: end, tokens: textnorm.Tokens(text[start:end])})
		}
	}

	start := 0
	for i, r := range text {
		switch r {
		case '\n':
			add(start, i)
			start = i + 1
		case '.', '!', '?', ';':
			next := i + 1
			if next >= len(text) {
				continue
			}
			nr, _ := utf8.DecodeRuneInString(text[next:])
			if unicode.IsSpace(nr) {
				add(start, next)
				start = next
			}
		}
	}
	add(start, len(text))
	return segs
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
