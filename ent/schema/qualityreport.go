package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// QualityReport holds the schema definition for the QualityReport entity,
// produced once for each successful GeneratedImage (§4.11).
type QualityReport struct {
	ent.Schema
}

// Fields of the QualityReport.
func (QualityReport) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("report_id").
			Unique().
			Immutable(),
		field.String("image_id").
			Immutable(),
		field.Float("overall").
			Immutable(),
		field.Float("adherence_score").
			Immutable(),
		field.Float("technical_score").
			Immutable(),
		field.Float("aesthetic_score").
			Immutable(),
		field.Float("safety_score").
			Immutable(),
		field.JSON("issues", []string{}).
			Optional().
			Immutable(),
		field.JSON("suggestions", []string{}).
			Optional().
			Immutable(),
		field.Bool("safety_verdict").
			Immutable(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the QualityReport.
func (QualityReport) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("generated_image", GeneratedImage.Type).
			Ref("quality_report").
			Field("image_id").
			Unique().
			Required().
			Immutable(),
	}
}
