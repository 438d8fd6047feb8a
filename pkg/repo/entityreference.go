package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/entityreference"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateEntityReference persists a new visual anchor image for an entity.
func (r *Repo) CreateEntityReference(ctx context.Context, ref models.EntityReference) (models.EntityReference, error) {
	create := r.Client.EntityReference.Create().
		SetID(ref.ID).
		SetEntityID(ref.EntityID).
		SetImagePointer(ref.ImagePointer).
		SetAddedAtChapter(ref.AddedAtChapter).
		SetNillableAgeTag(nonEmpty(ref.AgeTag)).
		SetStylePreset(ref.StylePreset).
		SetDescription(ref.Description).
		SetActive(ref.Active).
		SetPriority(ref.Priority).
		SetGenerationMethod(entityreference.GenerationMethod(ref.GenerationMethod)).
		SetNillableSourcePrompt(nonEmpty(ref.SourcePrompt)).
		SetCreatedAt(ref.CreatedAt)
	if ref.QualityScore != nil {
		create = create.SetQualityScore(*ref.QualityScore)
	}
	row, err := create.Save(ctx)
	if err != nil {
		return models.EntityReference{}, wrapf("create entity reference", err)
	}
	return entityReferenceFromEnt(row), nil
}

// ListActiveReferences returns an entity's active references for a style
// preset, highest priority first, the pool reference.Select chooses
// from.
func (r *Repo) ListActiveReferences(ctx context.Context, entityID, stylePreset string) ([]models.EntityReference, error) {
	rows, err := r.Client.EntityReference.Query().
		Where(
			entityreference.EntityIDEQ(entityID),
			entityreference.StylePresetEQ(stylePreset),
			entityreference.ActiveEQ(true),
		).
		Order(ent.Desc(entityreference.FieldPriority)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list active entity references", err)
	}
	out := make([]models.EntityReference, len(rows))
	for i, row := range rows {
		out[i] = entityReferenceFromEnt(row)
	}
	return out, nil
}

// DeactivateEntityReference flips Active off, leaving the row (and the
// image it points at) in place for audit.
func (r *Repo) DeactivateEntityReference(ctx context.Context, id string) error {
	err := r.Client.EntityReference.UpdateOneID(id).
		SetActive(false).
		Exec(ctx)
	return wrapf("deactivate entity reference", err)
}

func entityReferenceFromEnt(row *ent.EntityReference) models.EntityReference {
	return models.EntityReference{
		ID:               row.ID,
		EntityID:         row.EntityID,
		ImagePointer:     row.ImagePointer,
		AddedAtChapter:   row.AddedAtChapter,
		AgeTag:           row.AgeTag,
		StylePreset:      row.StylePreset,
		Description:      row.Description,
		Active:           row.Active,
		Priority:         row.Priority,
		GenerationMethod: models.GenerationMethod(row.GenerationMethod),
		QualityScore:     row.QualityScore,
		SourcePrompt:     row.SourcePrompt,
		CreatedAt:        row.CreatedAt,
	}
}
