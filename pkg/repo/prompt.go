package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/prompt"
	"github.com/novelenchant/enchant/ent/schema"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreatePrompt persists a composed prompt, optionally derived from a
// parent via the modification operator.
func (r *Repo) CreatePrompt(ctx context.Context, p models.Prompt) (models.Prompt, error) {
	row, err := r.Client.Prompt.Create().
		SetID(p.ID).
		SetSceneID(p.SceneID).
		SetText(p.Text).
		SetNegativeText(p.NegativeText).
		SetStylePreset(p.StylePreset).
		SetReferences(referencesToJSON(p.References)).
		SetTechnicalParameters(technicalToMap(p.Technical)).
		SetNillableParentPromptID(nonEmpty(p.ParentPromptID)).
		SetModificationHistory(modificationsToJSON(p.Modifications)).
		SetCreatedAt(p.CreatedAt).
		Save(ctx)
	if err != nil {
		return models.Prompt{}, wrapf("create prompt", err)
	}
	return promptFromEnt(row), nil
}

// GetPrompt loads a Prompt by id.
func (r *Repo) GetPrompt(ctx context.Context, id string) (models.Prompt, error) {
	row, err := r.Client.Prompt.Get(ctx, id)
	if err != nil {
		return models.Prompt{}, wrapf("get prompt", err)
	}
	return promptFromEnt(row), nil
}

// ListPromptsByScene returns every prompt attempted for a scene, newest
// last.
func (r *Repo) ListPromptsByScene(ctx context.Context, sceneID string) ([]models.Prompt, error) {
	rows, err := r.Client.Prompt.Query().
		Where(prompt.SceneIDEQ(sceneID)).
		Order(ent.Asc(prompt.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list prompts", err)
	}
	out := make([]models.Prompt, len(rows))
	for i, row := range rows {
		out[i] = promptFromEnt(row)
	}
	return out, nil
}

func promptFromEnt(row *ent.Prompt) models.Prompt {
	return models.Prompt{
		ID:             row.ID,
		SceneID:        row.SceneID,
		Text:           row.Text,
		NegativeText:   row.NegativeText,
		StylePreset:    row.StylePreset,
		References:     referencesFromJSON(row.References),
		Technical:      technicalFromMap(row.TechnicalParameters),
		ParentPromptID: row.ParentPromptID,
		Modifications:  modificationsFromJSON(row.ModificationHistory),
		CreatedAt:      row.CreatedAt,
	}
}

func referencesToJSON(refs []models.PromptReference) []schema.PromptReferenceJSON {
	out := make([]schema.PromptReferenceJSON, len(refs))
	for i, ref := range refs {
		out[i] = schema.PromptReferenceJSON{
			EntityID:          ref.EntityID,
			EntityReferenceID: ref.EntityReferenceID,
			ImagePointer:      ref.ImagePointer,
			Weight:            ref.Weight,
		}
	}
	return out
}

func referencesFromJSON(refs []schema.PromptReferenceJSON) []models.PromptReference {
	out := make([]models.PromptReference, len(refs))
	for i, ref := range refs {
		out[i] = models.PromptReference{
			EntityID:          ref.EntityID,
			EntityReferenceID: ref.EntityReferenceID,
			ImagePointer:      ref.ImagePointer,
			Weight:            ref.Weight,
		}
	}
	return out
}

func modificationsToJSON(mods []models.Modification) []schema.ModificationJSON {
	out := make([]schema.ModificationJSON, len(mods))
	for i, m := range mods {
		out[i] = schema.ModificationJSON{
			Kind:      string(m.Kind),
			Value:     m.Value,
			AppliedAt: m.AppliedAt,
		}
	}
	return out
}

func modificationsFromJSON(mods []schema.ModificationJSON) []models.Modification {
	out := make([]models.Modification, len(mods))
	for i, m := range mods {
		out[i] = models.Modification{
			Kind:      models.ModificationKind(m.Kind),
			Value:     m.Value,
			AppliedAt: m.AppliedAt,
		}
	}
	return out
}

func technicalToMap(t models.TechnicalParams) map[string]any {
	return map[string]any{
		"width":     t.Width,
		"height":    t.Height,
		"steps":     t.Steps,
		"cfg_scale": t.CFGScale,
		"sampler":   t.Sampler,
	}
}

func technicalFromMap(m map[string]any) models.TechnicalParams {
	var t models.TechnicalParams
	if m == nil {
		return t
	}
	if v, ok := m["width"].(float64); ok {
		t.Width = int(v)
	}
	if v, ok := m["height"].(float64); ok {
		t.Height = int(v)
	}
	if v, ok := m["steps"].(float64); ok {
		t.Steps = int(v)
	}
	if v, ok := m["cfg_scale"].(float64); ok {
		t.CFGScale = v
	}
	if v, ok := m["sampler"].(string); ok {
		t.Sampler = v
	}
	return t
}
