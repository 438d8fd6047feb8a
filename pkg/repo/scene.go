package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/scene"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateScene persists one immutable Scene extracted from a chapter.
func (r *Repo) CreateScene(ctx context.Context, s models.Scene) (models.Scene, error) {
	row, err := r.Client.Scene.Create().
		SetID(s.ID).
		SetChapterID(s.ChapterID).
		SetChunkIndex(s.ChunkIndex).
		SetSceneIndex(s.SceneIndex).
		SetText(s.Text).
		SetSummary(s.Summary).
		SetVisualScore(s.VisualScore).
		SetImpactScore(s.ImpactScore).
		SetTimeOfDay(scene.TimeOfDay(s.TimeOfDay)).
		SetEmotionalTone(scene.EmotionalTone(s.EmotionalTone)).
		SetActionLevel(s.ActionLevel).
		Save(ctx)
	if err != nil {
		return models.Scene{}, wrapf("create scene", err)
	}
	return sceneFromEnt(row), nil
}

// GetScene loads a Scene by id.
func (r *Repo) GetScene(ctx context.Context, id string) (models.Scene, error) {
	row, err := r.Client.Scene.Get(ctx, id)
	if err != nil {
		return models.Scene{}, wrapf("get scene", err)
	}
	return sceneFromEnt(row), nil
}

// ListScenesByChapter returns a chapter's scenes ordered by chunk then
// scene index, the order they occur in the source text.
func (r *Repo) ListScenesByChapter(ctx context.Context, chapterID string) ([]models.Scene, error) {
	rows, err := r.Client.Scene.Query().
		Where(scene.ChapterIDEQ(chapterID)).
		Order(ent.Asc(scene.FieldChunkIndex), ent.Asc(scene.FieldSceneIndex)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list scenes", err)
	}
	out := make([]models.Scene, len(rows))
	for i, row := range rows {
		out[i] = sceneFromEnt(row)
	}
	return out, nil
}

func sceneFromEnt(row *ent.Scene) models.Scene {
	return models.Scene{
		ID:            row.ID,
		ChapterID:     row.ChapterID,
		ChunkIndex:    row.ChunkIndex,
		SceneIndex:    row.SceneIndex,
		Text:          row.Text,
		Summary:       row.Summary,
		VisualScore:   row.VisualScore,
		ImpactScore:   row.ImpactScore,
		TimeOfDay:     models.TimeOfDay(row.TimeOfDay),
		EmotionalTone: models.EmotionalTone(row.EmotionalTone),
		ActionLevel:   row.ActionLevel,
	}
}
