package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Prompt holds the schema definition for the Prompt entity: the composed
// textual and technical input to the image model for one scene-generation
// attempt (§4.9). Immutable once created.
type Prompt struct {
	ent.Schema
}

// PromptReferenceJSON is the JSON shape of one entry of a Prompt's
// reference-image list, mirroring models.PromptReference.
type PromptReferenceJSON struct {
	EntityID          string  `json:"entity_id"`
	EntityReferenceID string  `json:"entity_reference_id"`
	ImagePointer      string  `json:"image_pointer"`
	Weight            float64 `json:"weight"`
}

// ModificationJSON is the JSON shape of one entry of a Prompt's
// modification history, mirroring models.Modification.
type ModificationJSON struct {
	Kind      string    `json:"kind"`
	Value     string    `json:"value"`
	AppliedAt time.Time `json:"applied_at"`
}

// Fields of the Prompt.
func (Prompt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("prompt_id").
			Unique().
			Immutable(),
		field.String("scene_id").
			Immutable(),
		field.Text("text").
			Immutable(),
		field.Text("negative_text").
			Immutable(),
		field.String("style_preset").
			Immutable(),
		field.JSON("references", []PromptReferenceJSON{}).
			Optional().
			Immutable(),
		field.JSON("technical_parameters", map[string]any{}).
			Immutable(),
		field.String("parent_prompt_id").
			Optional().
			Immutable(),
		field.JSON("modification_history", []ModificationJSON{}).
			Optional().
			Immutable(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the Prompt.
func (Prompt) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("scene", Scene.Type).
			Ref("prompts").
			Field("scene_id").
			Unique().
			Required().
			Immutable(),
		edge.To("generated_images", GeneratedImage.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Prompt.
func (Prompt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scene_id"),
	}
}
