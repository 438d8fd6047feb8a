// Package textnorm provides the normalization and similarity primitives
// shared by the entity resolver, merger and evolution tracker: case/
// whitespace/unicode normalization, word tokenization, and a Levenshtein
// similarity score in [0,1].
package textnorm

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// params is the shared Levenshtein parameter set: default substitution/
// insertion/deletion costs, case-insensitive comparison handled by our own
// Normalize step before matching.
var params = levenshtein.NewParams()

// Normalize applies unicode NFC normalization, trims surrounding
// whitespace, and lower-cases for comparison. Used for any exact/alias
// match and as the base of similarity scoring.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// Similarity returns a Levenshtein-based similarity score in [0,1]: 1.0
// for identical (normalized) strings, decreasing with edit distance
// relative to the longer string's length.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}
	return levenshtein.Match(na, nb, params)
}

// ContainsFold reports whether b occurs within a under case-insensitive,
// normalized comparison, in either direction.
func ContainsFold(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Words splits s into lower-cased word tokens, stripping punctuation.
func Words(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// WordSet returns the distinct lower-cased words in s.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Words(s) {
		set[w] = struct{}{}
	}
	return set
}

// DistinctNewLemmas counts words present in new but absent from old,
// using simple set difference over WordSet (no true lemmatization is
// performed — the spec's "distinct lemmas" check is approximated by
// distinct-word-form difference, which is the same approximation the
// corpus's own heuristic matchers make elsewhere).
func DistinctNewLemmas(oldText, newText string) int {
	oldSet := WordSet(oldText)
	newSet := WordSet(newText)
	count := 0
	for w := range newSet {
		if _, ok := oldSet[w]; !ok {
			count++
		}
	}
	return count
}

// Sentences splits text on sentence terminators, trimming results and
// dropping empties.
func Sentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '?' || r == '!' {
			flush()
		}
	}
	flush()
	return out
}

// Clamp01 clamps a float64 to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
