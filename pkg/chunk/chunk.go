// Package chunk splits chapter text into bounded-size chunks along natural
// boundaries, per the three chunking strategies a chapter pipeline run can
// select: paragraph, semantic and fixed.
package chunk

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Strategy selects the chunking algorithm.
type Strategy string

const (
	// StrategyParagraph splits on blank-line boundaries only.
	StrategyParagraph Strategy = "paragraph"
	// StrategySemantic additionally recognises explicit scene-break markers.
	StrategySemantic Strategy = "semantic"
	// StrategyFixed grows chunks up to max_size, splitting at the best
	// available boundary within the tail of the window.
	StrategyFixed Strategy = "fixed"
)

// BoundaryKind records whether a chunk's trailing edge fell on a natural
// boundary (paragraph break, scene marker) or was forced by size.
type BoundaryKind string

const (
	BoundaryNatural BoundaryKind = "natural"
	BoundaryForced  BoundaryKind = "forced"
)

// ErrEmptyInput is returned when the input text has no non-whitespace content.
var ErrEmptyInput = errors.New("chunk: empty input")

// Piece is one contiguous slice of chapter text (one chunk).
type Piece struct {
	Index    int
	Text     string
	Boundary BoundaryKind
}

// Options controls chunk production. Overlap applies to StrategyFixed and
// to the fixed re-split of a paragraph that alone exceeds MaxSize.
type Options struct {
	MaxSize int
	Overlap int
}

// sceneBreakPattern matches the explicit scene-break markers recognised by
// the semantic strategy: "***", "---", "# heading", "Chapter N", "Part N",
// numbered sections, and triple newlines.
var sceneBreakPattern = regexp.MustCompile(
	`(?m)^\s*(\*\s*\*\s*\*+|-{3,}|#{1,6}\s+.+|Chapter\s+\d+|Part\s+\d+|\d+\.\s*$)\s*$|\n[ \t]*\n[ \t]*\n`,
)

var sentenceTerminators = []rune{'.', '?', '!'}

// Chunk splits text into an ordered sequence of chunks. No returned chunk
// exceeds opts.MaxSize runes; indices are contiguous from 0.
func Chunk(text string, strategy Strategy, opts Options) ([]Piece, error) {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 2000
	}
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, ErrEmptyInput
	}

	switch strategy {
	case StrategyParagraph:
		return reindex(chunkParagraphs(cleaned, opts, false)), nil
	case StrategySemantic:
		return reindex(chunkParagraphs(cleaned, opts, true)), nil
	case StrategyFixed:
		return reindex(chunkFixed(cleaned, opts)), nil
	default:
		return reindex(chunkFixed(cleaned, opts)), nil
	}
}

func reindex(chunks []Piece) []Piece {
	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

// chunkParagraphs accumulates paragraphs (or semantic segments) into chunks
// while the next unit fits within MaxSize; a unit that alone exceeds MaxSize
// is re-split with chunkFixed, retaining boundary=forced on the sub-chunks.
// In semantic mode a scene-break marker always ends the current chunk.
func chunkParagraphs(text string, opts Options, semantic bool) []Piece {
	var units []string
	var breaks map[int]bool
	if semantic {
		units, breaks = splitSemanticUnits(text)
	} else {
		units = splitParagraphs(text)
	}

	var chunks []Piece
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, Piece{Text: strings.TrimSpace(current.String()), Boundary: BoundaryNatural})
		current.Reset()
	}

	for i, unit := range units {
		if breaks[i] {
			flush()
		}
		unit = strings.TrimSpace(unit)
		if unit == "" {
			continue
		}
		if len(unit) > opts.MaxSize {
			flush()
			for _, sub := range chunkFixed(unit, opts) {
				sub.Boundary = BoundaryForced
				chunks = append(chunks, sub)
			}
			continue
		}

		candidateLen := current.Len()
		if candidateLen > 0 {
			candidateLen += 2 // paragraph separator
		}
		candidateLen += len(unit)

		if candidateLen > opts.MaxSize && current.Len() > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(unit)
	}
	flush()

	return chunks
}

func splitParagraphs(text string) []string {
	return regexp.MustCompile(`\n\s*\n+`).Split(text, -1)
}

// splitSemanticUnits first splits on explicit scene-break markers, then
// subdivides each resulting segment on paragraph boundaries. The returned
// set holds the index of each unit that starts a new scene segment.
func splitSemanticUnits(text string) ([]string, map[int]bool) {
	segments := sceneBreakPattern.Split(text, -1)
	var units []string
	breaks := map[int]bool{}
	for i, seg := range segments {
		if i > 0 {
			breaks[len(units)] = true
		}
		units = append(units, splitParagraphs(seg)...)
	}
	return units, breaks
}

// chunkFixed grows chunks up to MaxSize runes. When a split is required, it
// prefers the latest sentence terminator, newline, or space within the last
// 20% of the window. opts.Overlap runes from the tail of chunk k are
// re-emitted as the head of chunk k+1.
func chunkFixed(text string, opts Options) []Piece {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []Piece
	pos := 0
	for pos < n {
		end := pos + opts.MaxSize
		boundary := BoundaryForced
		if end >= n {
			end = n
		} else {
			splitAt, natural := findSplitPoint(runes, pos, end)
			end = splitAt
			if natural {
				boundary = BoundaryNatural
			}
		}
		if end <= pos {
			end = min(pos+opts.MaxSize, n)
		}

		chunkText := string(runes[pos:end])
		chunks = append(chunks, Piece{Text: chunkText, Boundary: boundary})

		if end >= n {
			break
		}

		next := end
		if opts.Overlap > 0 {
			next -= opts.Overlap
			if next <= pos {
				next = end
			}
		}
		pos = next
	}
	return chunks
}

// findSplitPoint searches the last 20% of [start, limit) for a preferred
// split point: sentence terminator, then newline, then space. Returns the
// index immediately after the chosen character and whether the split point
// was "natural" (a real sentence terminator followed by whitespace/EOF, as
// opposed to any other boundary used only because the window was full).
func findSplitPoint(runes []rune, start, limit int) (int, bool) {
	windowLen := limit - start
	searchStart := start + int(float64(windowLen)*0.8)
	if searchStart < start {
		searchStart = start
	}

	for i := limit - 1; i >= searchStart; i-- {
		if isSentenceTerminator(runes[i]) {
			end := i + 1
			natural := end >= len(runes) || unicode.IsSpace(runes[end])
			return end, natural
		}
	}
	for i := limit - 1; i >= searchStart; i-- {
		if runes[i] == '\n' {
			return i + 1, false
		}
	}
	for i := limit - 1; i >= searchStart; i-- {
		if runes[i] == ' ' {
			return i + 1, false
		}
	}
	return limit, false
}

func isSentenceTerminator(r rune) bool {
	for _, t := range sentenceTerminators {
		if r == t {
			return true
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Reconstruct concatenates chunk texts in order, collapsing the overlap
// that StrategyFixed introduces, to verify the non-whitespace content of
// the source is preserved.
func Reconstruct(chunks []Piece, opts Options) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c.Text)
			continue
		}
		text := c.Text
		if r := []rune(text); opts.Overlap > 0 && len(r) >= opts.Overlap {
			text = string(r[opts.Overlap:])
		}
		b.WriteString(text)
	}
	return b.String()
}
