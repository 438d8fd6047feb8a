package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/evolutionrecord"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateEvolutionRecord appends one diff entry to an entity's evolution
// history.
func (r *Repo) CreateEvolutionRecord(ctx context.Context, rec models.EvolutionRecord) (models.EvolutionRecord, error) {
	row, err := r.Client.EvolutionRecord.Create().
		SetID(rec.ID).
		SetEntityID(rec.EntityID).
		SetAtChapter(rec.AtChapter).
		SetPreviousDescription(rec.PreviousDesc).
		SetNewDescription(rec.NewDesc).
		SetChanges(rec.Changes).
		SetUpdated(rec.Updated).
		SetNillableNote(nonEmpty(rec.Note)).
		SetCreatedAt(rec.CreatedAt).
		Save(ctx)
	if err != nil {
		return models.EvolutionRecord{}, wrapf("create evolution record", err)
	}
	return evolutionRecordFromEnt(row), nil
}

// ListEvolutionByEntity returns an entity's evolution history ordered by
// chapter.
func (r *Repo) ListEvolutionByEntity(ctx context.Context, entityID string) ([]models.EvolutionRecord, error) {
	rows, err := r.Client.EvolutionRecord.Query().
		Where(evolutionrecord.EntityIDEQ(entityID)).
		Order(ent.Asc(evolutionrecord.FieldAtChapter)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list evolution records", err)
	}
	out := make([]models.EvolutionRecord, len(rows))
	for i, row := range rows {
		out[i] = evolutionRecordFromEnt(row)
	}
	return out, nil
}

func evolutionRecordFromEnt(row *ent.EvolutionRecord) models.EvolutionRecord {
	return models.EvolutionRecord{
		ID:           row.ID,
		EntityID:     row.EntityID,
		AtChapter:    row.AtChapter,
		PreviousDesc: row.PreviousDescription,
		NewDesc:      row.NewDescription,
		Changes:      row.Changes,
		Updated:      row.Updated,
		Note:         row.Note,
		CreatedAt:    row.CreatedAt,
	}
}
