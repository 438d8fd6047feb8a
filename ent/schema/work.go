package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Work holds the schema definition for the Work entity: an entire
// ingested piece of prose, possibly spanning many chapters.
type Work struct {
	ent.Schema
}

// Fields of the Work.
func (Work) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("work_id").
			Unique().
			Immutable(),
		field.String("title"),
		field.String("style_preset"),
		field.String("custom_style").
			Optional(),
		field.Enum("content_type").
			Values("single", "multi", "full_book"),
		field.JSON("detection_metadata", map[string]any{}).
			Optional().
			Comment("patterns, structural_indicators, word_count, confidence"),
		field.Int("total_chapters").
			Default(0),
		field.Enum("status").
			Values("pending", "in_progress", "completed", "failed").
			Default("pending"),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the Work.
func (Work) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("chapters", Chapter.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("entities", Entity.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
