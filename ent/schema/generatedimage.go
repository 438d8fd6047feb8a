package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GeneratedImage holds the schema definition for the GeneratedImage
// entity: one image-generation attempt against a Prompt (§4.10). Within a
// scene, exactly one GeneratedImage is selected at any time.
type GeneratedImage struct {
	ent.Schema
}

// Fields of the GeneratedImage.
func (GeneratedImage) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("image_id").
			Unique().
			Immutable(),
		field.String("prompt_id").
			Immutable(),
		field.String("scene_id").
			Immutable(),
		field.String("image_pointer").
			Optional(),
		field.Enum("status").
			Values("success", "error", "in-progress"),
		field.String("model_version").
			Optional(),
		field.Int64("seed").
			Optional(),
		field.Int64("generation_time_ms").
			Optional(),
		field.Float("cost").
			Optional(),
		field.String("error_detail").
			Optional(),
		field.Int("version").
			Default(1),
		field.Bool("selected").
			Default(false),
		field.String("replaced_image_id").
			Optional(),
		field.Time("replaced_at").
			Optional().
			Nillable(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the GeneratedImage.
func (GeneratedImage) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("prompt", Prompt.Type).
			Ref("generated_images").
			Field("prompt_id").
			Unique().
			Required().
			Immutable(),
		edge.To("quality_report", QualityReport.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the GeneratedImage.
func (GeneratedImage) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scene_id", "selected"),
	}
}
