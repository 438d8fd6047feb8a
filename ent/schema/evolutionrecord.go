package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// EvolutionRecord holds the schema definition for the EvolutionRecord
// entity: an append-only structured diff of how an Entity's description
// changed between two points in the narrative (§4.7).
type EvolutionRecord struct {
	ent.Schema
}

// Fields of the EvolutionRecord.
func (EvolutionRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("evolution_id").
			Unique().
			Immutable(),
		field.String("entity_id").
			Immutable(),
		field.Int("at_chapter").
			Immutable(),
		field.Text("previous_description").
			Immutable(),
		field.Text("new_description").
			Immutable(),
		field.JSON("changes", []string{}).
			Optional().
			Immutable(),
		field.Bool("updated").
			Default(true).
			Immutable(),
		field.String("note").
			Optional().
			Immutable(),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the EvolutionRecord.
func (EvolutionRecord) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("entity", Entity.Type).
			Ref("evolution_records").
			Field("entity_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the EvolutionRecord.
func (EvolutionRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("entity_id", "at_chapter"),
	}
}
