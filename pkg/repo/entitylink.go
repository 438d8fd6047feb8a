package repo

import (
	"context"
	"time"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/entitylink"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateEntityLink persists a resolved mention as a durable scene<->entity
// edge. Unresolved mentions never reach this call (§3).
func (r *Repo) CreateEntityLink(ctx context.Context, id, sceneID string, link models.EntityLink, createdAt time.Time) (models.EntityLink, error) {
	row, err := r.Client.EntityLink.Create().
		SetID(id).
		SetSceneID(sceneID).
		SetEntityID(link.ResolvedEntityID).
		SetMentionText(link.Mention.Text).
		SetMentionStart(link.Mention.Start).
		SetMentionEnd(link.Mention.End).
		SetConfidence(link.Confidence).
		SetAlternativeEntityIDs(link.AlternativeEntityIDs).
		SetNillableDisambiguationNote(nonEmpty(link.DisambiguationNote)).
		SetCreatedAt(createdAt).
		Save(ctx)
	if err != nil {
		return models.EntityLink{}, wrapf("create entity link", err)
	}
	return entityLinkFromEnt(row), nil
}

// ListEntityLinksByScene returns every resolved mention recorded for a
// scene.
func (r *Repo) ListEntityLinksByScene(ctx context.Context, sceneID string) ([]models.EntityLink, error) {
	rows, err := r.Client.EntityLink.Query().
		Where(entitylink.SceneIDEQ(sceneID)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list entity links", err)
	}
	out := make([]models.EntityLink, len(rows))
	for i, row := range rows {
		out[i] = entityLinkFromEnt(row)
	}
	return out, nil
}

func entityLinkFromEnt(row *ent.EntityLink) models.EntityLink {
	return models.EntityLink{
		Mention: models.Mention{
			Text:  row.MentionText,
			Start: row.MentionStart,
			End:   row.MentionEnd,
		},
		ResolvedEntityID:     row.EntityID,
		Confidence:           row.Confidence,
		AlternativeEntityIDs: row.AlternativeEntityIDs,
		DisambiguationNote:   row.DisambiguationNote,
	}
}
