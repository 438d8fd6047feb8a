package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ChapterJob holds the schema definition for the ChapterJob entity: the
// scheduler's per-chapter state machine record (§4.13).
type ChapterJob struct {
	ent.Schema
}

// Fields of the ChapterJob.
func (ChapterJob) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("job_id").
			Unique().
			Immutable(),
		field.String("work_id").
			Immutable(),
		field.String("chapter_id").
			Immutable(),
		field.Int("chapter_ordinal").
			Immutable(),
		field.Enum("status").
			Values("queued", "waiting-for-previous", "running", "completed", "failed").
			Default("waiting-for-previous"),
		field.Int("prerequisite_ordinal").
			Optional().
			Nillable().
			Immutable(),
		field.Int("priority").
			Default(0),
		field.Time("created_at").
			Immutable(),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.Time("heartbeat_at").
			Optional().
			Nillable().
			Comment("last liveness update while running, used by orphan recovery"),
		field.String("last_error").
			Optional(),
	}
}

// Edges of the ChapterJob.
func (ChapterJob) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("chapter", Chapter.Type).
			Ref("job").
			Field("chapter_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ChapterJob.
func (ChapterJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("work_id", "chapter_ordinal").
			Unique(),
		index.Fields("status"),
	}
}
