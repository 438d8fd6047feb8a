package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Chapter holds the schema definition for the Chapter entity: one
// chapter of a Work, immutable once ingested.
type Chapter struct {
	ent.Schema
}

// Fields of the Chapter.
func (Chapter) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("chapter_id").
			Unique().
			Immutable(),
		field.String("work_id").
			Immutable(),
		field.Int("ordinal").
			Immutable().
			Comment("1-based, strictly increasing with no gaps within a work"),
		field.String("title").
			Optional(),
		field.Text("text").
			Immutable(),
		field.Int("word_count"),
		field.Enum("status").
			Values("pending", "processing", "completed", "failed").
			Default("pending"),
		field.String("error_message").
			Optional(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the Chapter.
func (Chapter) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("work", Work.Type).
			Ref("chapters").
			Field("work_id").
			Unique().
			Required().
			Immutable(),
		edge.To("scenes", Scene.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("job", ChapterJob.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Chapter.
func (Chapter) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("work_id", "ordinal").
			Unique(),
	}
}
