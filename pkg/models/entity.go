package models

import (
	"time"
	"unicode"
)

// EntityKind distinguishes the two tracked entity categories.
type EntityKind string

const (
	EntityKindCharacter EntityKind = "character"
	EntityKindLocation  EntityKind = "location"
)

// Entity is a character or location tracked across a work. Its id is
// stable forever; description mutates via the evolution tracker.
type Entity struct {
	ID                  string     `json:"id"`
	WorkID              string     `json:"work_id"`
	Name                string     `json:"name"`
	Kind                EntityKind `json:"kind"`
	Description         string     `json:"description"`
	Aliases             []string   `json:"aliases,omitempty"`
	FirstAppearanceChap int        `json:"first_appearance_chapter"`
	Active              bool       `json:"active"`
}

// HasAlias reports (case-insensitively) whether name matches the entity's
// name or any of its aliases.
func (e Entity) HasAlias(name string) bool {
	if eqFold(e.Name, name) {
		return true
	}
	for _, a := range e.Aliases {
		if eqFold(a, name) {
			return true
		}
	}
	return false
}

func eqFold(a, b string) bool {
	if len(a) != len(b) {
		// still fall through to a full fold comparison for unicode safety
	}
	return foldEqual(a, b)
}

func foldEqual(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if toLowerRune(ra[i]) != toLowerRune(rb[i]) {
			return false
		}
	}
	return true
}

func toLowerRune(r rune) rune {
	return unicode.ToLower(r)
}

// GenerationMethod records how an EntityReference image was produced.
type GenerationMethod string

const (
	GenerationMethodAI        GenerationMethod = "ai"
	GenerationMethodUploaded  GenerationMethod = "uploaded"
	GenerationMethodExtracted GenerationMethod = "extracted"
)

// EntityReference is a stored visual anchor image for an entity, annotated
// with style, age, priority and activation. Never mutated after creation,
// only deactivated.
type EntityReference struct {
	ID               string           `json:"id"`
	EntityID         string           `json:"entity_id"`
	ImagePointer     string           `json:"image_pointer"`
	AddedAtChapter   int              `json:"added_at_chapter"`
	AgeTag           string           `json:"age_tag,omitempty"`
	StylePreset      string           `json:"style_preset"`
	Description      string           `json:"description"`
	Active           bool             `json:"active"`
	Priority         int              `json:"priority"`
	GenerationMethod GenerationMethod `json:"generation_method"`
	QualityScore     *float64         `json:"quality_score,omitempty"`
	SourcePrompt     string           `json:"source_prompt,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// EvolutionRecord is an append-only structured diff of how an entity's
// description changed between two points in the narrative.
type EvolutionRecord struct {
	ID            string    `json:"id"`
	EntityID      string    `json:"entity_id"`
	AtChapter     int       `json:"at_chapter"`
	PreviousDesc  string    `json:"previous_description"`
	NewDesc       string    `json:"new_description"`
	Changes       []string  `json:"changes"`
	Updated       bool      `json:"updated"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
