package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Scene holds the schema definition for the Scene entity: a contiguous,
// visually-describable fragment of a chapter. Immutable once committed.
type Scene struct {
	ent.Schema
}

// Fields of the Scene.
func (Scene) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("scene_id").
			Unique().
			Immutable(),
		field.String("chapter_id").
			Immutable(),
		field.Int("chunk_index").
			Immutable(),
		field.Int("scene_index").
			Immutable(),
		field.Text("text").
			Immutable(),
		field.Text("summary").
			Optional(),
		field.Float("visual_score"),
		field.Float("impact_score"),
		field.Enum("time_of_day").
			Values("dawn", "morning", "noon", "afternoon", "dusk", "evening", "night", "unknown"),
		field.Enum("emotional_tone").
			Values("tense", "joyful", "melancholic", "romantic", "ominous", "triumphant", "neutral", "mysterious"),
		field.Float("action_level"),
	}
}

// Edges of the Scene.
func (Scene) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("chapter", Chapter.Type).
			Ref("scenes").
			Field("chapter_id").
			Unique().
			Required().
			Immutable(),
		edge.To("prompts", Prompt.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("generated_images", GeneratedImage.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
