package models

import "time"

// TechnicalParams are the image model's generation knobs, either sourced
// from a style preset or overridden per prompt.
type TechnicalParams struct {
	Width    int     `yaml:"width" json:"width"`
	Height   int     `yaml:"height" json:"height"`
	Steps    int     `yaml:"steps" json:"steps"`
	CFGScale float64 `yaml:"cfg_scale" json:"cfg_scale"`
	Sampler  string  `yaml:"sampler" json:"sampler"`
}

// PromptReference is one entry of a Prompt's reference-image list: a
// pointer to an EntityReference's image plus the weight it contributes.
type PromptReference struct {
	EntityID           string  `json:"entity_id"`
	EntityReferenceID  string  `json:"entity_reference_id"`
	ImagePointer       string  `json:"image_pointer"`
	Weight             float64 `json:"weight"` // (0,1]
}

// ModificationKind enumerates the modification operator's supported ops.
type ModificationKind string

const (
	ModAddElement        ModificationKind = "add_element"
	ModRemoveElement     ModificationKind = "remove_element"
	ModChangeStyle       ModificationKind = "change_style"
	ModAdjustLighting    ModificationKind = "adjust_lighting"
	ModModifyCharacter   ModificationKind = "modify_character"
	ModAddDetail         ModificationKind = "add_detail"
	ModRemoveDetail      ModificationKind = "remove_detail"
	ModChangeMood        ModificationKind = "change_mood"
	ModAdjustComposition ModificationKind = "adjust_composition"
	ModCustom            ModificationKind = "custom"
)

// Modification is one entry of a Prompt's modification history: the
// operation applied and the value it carried.
type Modification struct {
	Kind      ModificationKind `json:"kind"`
	Value     string           `json:"value"`
	AppliedAt time.Time        `json:"applied_at"`
}

// Prompt is the composed textual and technical input to the image model
// for one scene-generation attempt. Immutable once created; a derived
// prompt (via the modification operator) is a new record with ParentID set.
type Prompt struct {
	ID              string            `json:"id"`
	SceneID         string            `json:"scene_id"`
	Text            string            `json:"text"`
	NegativeText    string            `json:"negative_text"`
	StylePreset     string            `json:"style_preset"`
	References      []PromptReference `json:"references,omitempty"`
	Technical       TechnicalParams   `json:"technical_parameters"`
	ParentPromptID  string            `json:"parent_prompt_id,omitempty"`
	Modifications   []Modification    `json:"modification_history,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}
