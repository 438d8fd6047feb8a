package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EntityLink holds the schema definition for the EntityLink entity: the
// durable scene<->entity edge recorded only when a mention resolves to a
// committed entity (§3). Unresolved mentions are transient and never
// reach persistence.
type EntityLink struct {
	ent.Schema
}

// Fields of the EntityLink.
func (EntityLink) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("link_id").
			Unique().
			Immutable(),
		field.String("scene_id").
			Immutable(),
		field.String("entity_id").
			Immutable(),
		field.String("mention_text").
			Immutable(),
		field.Int("mention_start").
			Immutable(),
		field.Int("mention_end").
			Immutable(),
		field.Float("confidence").
			Immutable(),
		field.JSON("alternative_entity_ids", []string{}).
			Optional().
			Immutable(),
		field.String("disambiguation_note").
			Optional().
			Immutable(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the EntityLink.
func (EntityLink) Edges() []ent.Edge {
	return nil
}

// Indexes of the EntityLink.
func (EntityLink) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("scene_id", "entity_id").
			Unique(),
	}
}
