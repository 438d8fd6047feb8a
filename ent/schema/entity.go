package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Entity holds the schema definition for the Entity entity: a character
// or location tracked across a Work. Id is stable forever; description
// mutates via the evolution tracker.
type Entity struct {
	ent.Schema
}

// Fields of the Entity.
func (Entity) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("entity_id").
			Unique().
			Immutable(),
		field.String("work_id").
			Immutable(),
		field.String("name"),
		field.Enum("kind").
			Values("character", "location").
			Immutable(),
		field.Text("description").
			Optional(),
		field.JSON("aliases", []string{}).
			Optional(),
		field.Int("first_appearance_chapter").
			Immutable(),
		field.Bool("active").
			Default(true),
		field.Time("created_at").
			Immutable(),
	}
}

// Edges of the Entity.
func (Entity) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("work", Work.Type).
			Ref("entities").
			Field("work_id").
			Unique().
			Required().
			Immutable(),
		edge.To("references", EntityReference.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("evolution_records", EvolutionRecord.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Entity.
func (Entity) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("work_id", "name"),
	}
}
