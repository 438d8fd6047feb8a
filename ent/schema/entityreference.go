package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EntityReference holds the schema definition for the EntityReference
// entity: a stored visual anchor image for an Entity (§4.8). Never
// mutated after creation, only deactivated.
type EntityReference struct {
	ent.Schema
}

// Fields of the EntityReference.
func (EntityReference) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("reference_id").
			Unique().
			Immutable(),
		field.String("entity_id").
			Immutable(),
		field.String("image_pointer").
			Immutable(),
		field.Int("added_at_chapter").
			Immutable(),
		field.String("age_tag").
			Optional().
			Immutable(),
		field.String("style_preset").
			Immutable(),
		field.Text("description").
			Optional().
			Immutable(),
		field.Bool("active").
			Default(true),
		field.Int("priority").
			Default(0).
			Immutable(),
		field.Enum("generation_method").
			Values("ai", "uploaded", "extracted").
			Immutable(),
		field.Float("quality_score").
			Optional().
			Nillable(),
		field.Text("source_prompt").
			Optional().
			Immutable(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the EntityReference.
func (EntityReference) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("entity", Entity.Type).
			Ref("references").
			Field("entity_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the EntityReference.
func (EntityReference) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("entity_id", "style_preset", "active", "priority"),
	}
}
