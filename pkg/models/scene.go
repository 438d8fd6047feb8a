package models

// TimeOfDay is the closed enum a scene's time-of-day is normalized onto.
type TimeOfDay string

const (
	TimeOfDayDawn    TimeOfDay = "dawn"
	TimeOfDayMorning TimeOfDay = "morning"
	TimeOfDayNoon    TimeOfDay = "noon"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayDusk    TimeOfDay = "dusk"
	TimeOfDayEvening TimeOfDay = "evening"
	TimeOfDayNight   TimeOfDay = "night"
	TimeOfDayUnknown TimeOfDay = "unknown"
)

// EmotionalTone is the closed enum a scene's tone is normalized onto.
type EmotionalTone string

const (
	ToneTense       EmotionalTone = "tense"
	ToneJoyful      EmotionalTone = "joyful"
	ToneMelancholic EmotionalTone = "melancholic"
	ToneRomantic    EmotionalTone = "romantic"
	ToneOminous     EmotionalTone = "ominous"
	ToneTriumphant  EmotionalTone = "triumphant"
	ToneNeutral     EmotionalTone = "neutral"
	ToneMysterious  EmotionalTone = "mysterious"
)

// Scene is a contiguous, visually-describable fragment of a chapter.
// Immutable once committed.
type Scene struct {
	ID            string        `json:"id"`
	ChapterID     string        `json:"chapter_id"`
	ChunkIndex    int           `json:"chunk_index"`
	SceneIndex    int           `json:"scene_index"`
	Text          string        `json:"text"`
	Summary       string        `json:"summary"`
	VisualScore   float64       `json:"visual_score"`
	ImpactScore   float64       `json:"impact_score"`
	TimeOfDay     TimeOfDay     `json:"time_of_day"`
	EmotionalTone EmotionalTone `json:"emotional_tone"`
	ActionLevel   float64       `json:"action_level"`
}

// MentionKind is the resolver's hint about what sort of entity a mention
// might refer to; "unknown" defers to the text model's classification
// when extraction runs (§9 Open Questions).
type MentionKind string

const (
	MentionKindCharacter MentionKind = "character"
	MentionKindLocation  MentionKind = "location"
	MentionKindUnknown   MentionKind = "unknown"
)

// Mention is a candidate character/location mention span within scene text.
// Transient: never persisted directly, only via the EntityLink it resolves
// (or fails to resolve) to.
type Mention struct {
	Text          string      `json:"text"`
	Start         int         `json:"start"`
	End           int         `json:"end"`
	Sentence      string      `json:"sentence"`
	Kind          MentionKind `json:"kind"`
	IsPronoun     bool        `json:"is_pronoun"`
	IsProperNoun  bool        `json:"is_proper_noun"`
}

// EntityLink is the outcome of resolving one Mention against the known
// entity set for a scene.
type EntityLink struct {
	Mention               Mention  `json:"mention"`
	ResolvedEntityID      string   `json:"resolved_entity_id,omitempty"`
	Confidence            float64  `json:"confidence"`
	AlternativeEntityIDs  []string `json:"alternative_entity_ids,omitempty"`
	DisambiguationNote    string   `json:"disambiguation_note,omitempty"`
}

// Resolved reports whether this link names a committed entity.
func (l EntityLink) Resolved() bool {
	return l.ResolvedEntityID != ""
}
