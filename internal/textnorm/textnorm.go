// ABOUTME: Unicode normalization helpers for matching text across accents and case
// ABOUTME: Folds diacritics with golang.org/x/text and splits text into word tokens
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "Página" and "pagina" compare equal
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Tokens returns the folded words of s. Anything that is not a letter or digit separates words.
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// stopwords are skipped when scoring overlap; English and Spanish cover the expected corpora
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a an and are as at be by for from has have how in is it its of on or that the this to was were what when where which who why will with
		al con como cual cuando de del donde el en es esta este la las lo los para por que se son su sus un una y`) {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether a folded token carries little meaning on its own
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Terms returns the folded tokens of s without stopwords
func Terms(s string) []string {
	tokens := Tokens(s)
	out := tokens[:0]
	for _, t := range tokens {
		if !IsStopword(t) {
			out = append(out, t)
		}
	}
	return out
}
