// Package mention heuristically identifies candidate character and
// location mention spans within scene text, ahead of entity resolution.
package mention

import (
	"regexp"
	"strings"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

var (
	titlePrefixPattern = regexp.MustCompile(`\b(Mr|Mrs|Ms|Dr|Lady|Lord|Sir|Captain|Colonel|General|Professor|Father|Mother|King|Queen|Prince|Princess)\.?\s+([A-Z][a-z]+)`)
	capitalWordPattern = regexp.MustCompile(`\b([A-Z][a-z]{2,19})\b`)
	pronounPattern     = regexp.MustCompile(`(?i)\b(he|him|his|she|her|hers|they|them|their|theirs)\b`)
	kinshipPattern     = regexp.MustCompile(`(?i)\b(mother|father|sister|brother|daughter|son|aunt|uncle|cousin|grandmother|grandfather)\b`)
	roleNounPattern    = regexp.MustCompile(`(?i)\bthe\s+([a-z]+(?:man|woman|knight|wizard|guard|merchant|soldier|king|queen|priest|witch))\b`)

	locationPrepPattern = regexp.MustCompile(`\b(?:in|at|to|from|near|within|beyond|toward|towards)\s+(?:the\s+)?([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	locationLexicon     = regexp.MustCompile(`(?i)\b([a-z]+\s+)?(castle|tower|forest|village|city|kingdom|palace|temple|mountain|river|lake|sea|ocean|valley|cave|harbor|harbour|manor|keep|citadel|garden|hall|bridge|inn|tavern|chamber|fortress)\b`)
	directionalPattern  = regexp.MustCompile(`(?i)\b(north|south|east|west|northern|southern|eastern|western)\s+([a-z]+)`)
)

// stopwords are common capitalized-at-sentence-start words excluded from
// character-candidate matching, plus frequent non-name capitals.
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "but", "or", "nor", "for", "yet", "so",
		"he", "she", "it", "they", "we", "you", "i", "this", "that",
		"these", "those", "there", "here", "then", "when", "while",
		"after", "before", "since", "although", "though", "because",
		"if", "unless", "until", "as", "when", "once", "though",
		"suddenly", "finally", "meanwhile", "however", "therefore",
		"indeed", "still", "yet", "perhaps", "maybe", "certainly",
		"monday", "tuesday", "wednesday", "thursday", "friday",
		"saturday", "sunday", "january", "february", "march", "april",
		"may", "june", "july", "august", "september", "october",
		"november", "december", "chapter", "part", "book", "scene",
		"yes", "no", "oh", "ah", "well", "now", "today", "tomorrow",
		"yesterday", "morning", "afternoon", "evening", "night",
		"spring", "summer", "autumn", "winter", "fall", "god", "lord",
		"mr", "mrs", "ms", "dr", "sir", "lady", "captain", "one", "two",
		"three", "four", "five", "first", "second", "third", "soon",
		"later", "earlier", "above", "below", "inside", "outside",
		"something", "someone", "somewhere", "nothing", "nobody",
		"nowhere", "everything", "everyone", "everywhere", "anything",
		"anyone", "anywhere", "what", "who", "whom", "whose", "which",
		"why", "how", "all", "some", "any", "each", "every", "both",
		"few", "many", "most", "other", "such", "only", "own", "same",
		"just", "even", "also", "too", "very", "quite", "rather",
		"almost", "already", "always", "never", "often", "sometimes",
		"usually", "again", "once", "twice",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func isStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// Find splits sceneText into sentences and returns every candidate
// character/location mention span, deduplicated on (lower(text), sentence).
func Find(sceneText string) []models.Mention {
	sentences := textnorm.Sentences(sceneText)

	var out []models.Mention
	seen := make(map[string]struct{})

	offset := 0
	for _, sentence := range sentences {
		start := strings.Index(sceneText[offset:], sentence)
		if start < 0 {
			start = 0
		} else {
			start += offset
		}
		offset = start + len(sentence)

		for _, m := range findInSentence(sentence) {
			key := strings.ToLower(m.Text) + "\x00" + sentence
			if _, dup := seen[key]; dup {
				continue
			}
			if l := len(m.Text); l < 2 || l > 50 {
				continue
			}
			seen[key] = struct{}{}
			m.Sentence = sentence
			m.Start = start
			if i := strings.Index(sentence, m.Text); i >= 0 {
				m.Start = start + i
			}
			m.End = m.Start + len(m.Text)
			out = append(out, m)
		}
	}
	return out
}

func findInSentence(sentence string) []models.Mention {
	var out []models.Mention

	for _, m := range titlePrefixPattern.FindAllStringSubmatch(sentence, -1) {
		out = append(out, models.Mention{Text: m[1] + " " + m[2], Kind: models.MentionKindCharacter, IsProperNoun: true})
	}

	for _, m := range capitalWordPattern.FindAllString(sentence, -1) {
		if isStopword(m) {
			continue
		}
		out = append(out, models.Mention{Text: m, Kind: models.MentionKindCharacter, IsProperNoun: true})
	}

	for _, m := range pronounPattern.FindAllString(sentence, -1) {
		out = append(out, models.Mention{Text: m, Kind: models.MentionKindCharacter, IsPronoun: true})
	}

	for _, m := range kinshipPattern.FindAllString(sentence, -1) {
		out = append(out, models.Mention{Text: m, Kind: models.MentionKindCharacter})
	}

	for _, m := range roleNounPattern.FindAllStringSubmatch(sentence, -1) {
		out = append(out, models.Mention{Text: m[1], Kind: models.MentionKindCharacter})
	}

	for _, m := range locationPrepPattern.FindAllStringSubmatch(sentence, -1) {
		if isStopword(m[1]) {
			continue
		}
		out = append(out, models.Mention{Text: m[1], Kind: models.MentionKindLocation, IsProperNoun: true})
	}

	for _, m := range locationLexicon.FindAllString(sentence, -1) {
		out = append(out, models.Mention{Text: strings.TrimSpace(m), Kind: models.MentionKindLocation})
	}

	for _, m := range directionalPattern.FindAllStringSubmatch(sentence, -1) {
		out = append(out, models.Mention{Text: m[1] + " " + m[2], Kind: models.MentionKindLocation})
	}

	return out
}
