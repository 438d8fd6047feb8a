// Package docparse specifies the parsing collaborator contract: turning
// raw uploaded bytes into a title, ordered chapter texts, and detection
// metadata. File-format parsing itself (PDF/DOCX/EPUB) is an external
// collaborator; this package only defines the contract plus a length-
// based fallback splitter and a plain-text default implementation.
package docparse

import (
	"strings"
	"unicode"

	"github.com/novelenchant/enchant/pkg/models"
)

// Result is the parsing collaborator's output contract.
type Result struct {
	Title      string
	Chapters   []string
	Detection  models.DetectionMetadata
}

// Parser is the capability surface external format-specific parsers
// implement; the core only depends on this interface.
type Parser interface {
	Parse(blob []byte) (Result, error)
}

// chapterHeadingWords mirrors the chunker's scene-break recognition:
// explicit chapter/part headings are the strongest structural signal.
var chapterHeadingWords = []string{"chapter", "part", "book"}

const fallbackChapterTargetWords = 3000

// PlainTextParser implements Parser for raw .txt input: the only format
// this core handles natively, everything else is an external collaborator.
type PlainTextParser struct{}

func (PlainTextParser) Parse(blob []byte) (Result, error) {
	text := string(blob)
	title := deriveTitle(text)

	chapters, indicators := splitOnHeadings(text)
	confidence := 0.9
	if len(chapters) <= 1 {
		chapters = SplitByLength(text, fallbackChapterTargetWords)
		indicators = []string{"length-based fallback"}
		confidence = 0.4
	}

	wordCount := len(strings.Fields(text))

	return Result{
		Title:    title,
		Chapters: chapters,
		Detection: models.DetectionMetadata{
			StructuralIndicators: indicators,
			WordCount:            wordCount,
			Confidence:           confidence,
		},
	}, nil
}

func deriveTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return "Untitled"
}

// splitOnHeadings splits text at lines that look like chapter/part/book
// headings, returning the chapter bodies and which indicator words fired.
// Text before the first heading becomes a chapter of its own unless it is
// just the title line.
func splitOnHeadings(text string) ([]string, []string) {
	lines := strings.Split(text, "\n")
	var chapters []string
	var current strings.Builder
	seen := map[string]struct{}{}
	var indicators []string

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chapters = append(chapters, s)
		}
		current.Reset()
	}

	sawHeading := false
	for _, line := range lines {
		if word, ok := headingWord(line); ok {
			// A preamble that is only the title line is not a chapter.
			if !sawHeading && strings.TrimSpace(current.String()) == deriveTitle(text) {
				current.Reset()
			}
			sawHeading = true
			flush()
			if _, dup := seen[word]; !dup {
				seen[word] = struct{}{}
				indicators = append(indicators, word)
			}
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	return chapters, indicators
}

func headingWord(line string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	for _, w := range chapterHeadingWords {
		if strings.HasPrefix(trimmed, w+" ") || trimmed == w {
			return w, true
		}
	}
	return "", false
}

// SplitByLength is the core's own length-based fallback when no
// structural indicators are present: split into chapters of roughly
// targetWords words each, breaking at paragraph boundaries; a single
// paragraph longer than targetWords is cut at word boundaries.
func SplitByLength(text string, targetWords int) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chapters []string
	var current strings.Builder
	wordCount := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chapters = append(chapters, s)
		}
		current.Reset()
		wordCount = 0
	}

	for _, p := range paragraphs {
		n := countWords(p)
		if targetWords > 0 && n > targetWords {
			flush()
			words := strings.Fields(p)
			for len(words) > targetWords {
				chapters = append(chapters, strings.Join(words[:targetWords], " "))
				words = words[targetWords:]
			}
			p = strings.Join(words, " ")
			n = len(words)
		}
		if wordCount > 0 && wordCount+n > targetWords {
			flush()
		}
		current.WriteString(p)
		current.WriteString("\n\n")
		wordCount += n
	}
	flush()

	if len(chapters) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return chapters
}

func countWords(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
