// Package contentpolicy implements the bounded keyword check the core
// performs on final prompts — the only content moderation the pipeline
// itself is responsible for (the image model enforces its own policy
// beyond this).
package contentpolicy

import (
	"regexp"
	"strings"
)

// blockedPattern holds one compiled disallowed-content pattern with a
// human-readable category, mirroring how masking patterns are named and
// compiled elsewhere in this codebase.
type blockedPattern struct {
	Category string
	Regex    *regexp.Regexp
}

var blockedPatterns = compilePatterns([]struct {
	category string
	pattern  string
}{
	{"graphic_violence", `(?i)\b(graphic|gratuitous)\s+(violence|gore|mutilation)\b`},
	{"explicit_sexual", `(?i)\b(explicit|nsfw)\s+(sexual|nudity)\b`},
	{"hate_speech", `(?i)\b(slur|hate\s+speech)\b`},
	{"self_harm", `(?i)\b(self[\s-]?harm|suicide\s+method)\b`},
	{"csam", `(?i)\b(child\s+sexual|csam)\b`},
})

func compilePatterns(defs []struct {
	category string
	pattern  string
}) []blockedPattern {
	out := make([]blockedPattern, 0, len(defs))
	for _, d := range defs {
		out = append(out, blockedPattern{Category: d.category, Regex: regexp.MustCompile(d.pattern)})
	}
	return out
}

// Violation names the keyword category a prompt tripped.
type Violation struct {
	Category string
	Match    string
}

// Check scans text for disallowed content keywords, returning every
// violation found (empty slice if none).
func Check(text string) []Violation {
	var out []Violation
	for _, p := range blockedPatterns {
		if m := p.Regex.FindString(text); m != "" {
			out = append(out, Violation{Category: p.Category, Match: strings.TrimSpace(m)})
		}
	}
	return out
}

// Allowed reports whether text has no policy violations.
func Allowed(text string) bool {
	return len(Check(text)) == 0
}
