package repo

import (
	"context"
	"time"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/generatedimage"
	"github.com/novelenchant/enchant/pkg/models"
)

// Selected returns the currently selected GeneratedImage for a scene, or
// nil if none has been selected yet. Satisfies imagegen.SceneImages.
func (r *Repo) Selected(ctx context.Context, sceneID string) (*models.GeneratedImage, error) {
	row, err := r.Client.GeneratedImage.Query().
		Where(
			generatedimage.SceneIDEQ(sceneID),
			generatedimage.SelectedEQ(true),
		).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, wrapf("get selected image", err)
	}
	img := generatedImageFromEnt(row)
	return &img, nil
}

// Save upserts a GeneratedImage by id: creates it if unseen, otherwise
// updates the mutable fields (selected, replacement bookkeeping).
// Satisfies imagegen.SceneImages.
func (r *Repo) Save(ctx context.Context, img models.GeneratedImage) error {
	exists, err := r.Client.GeneratedImage.Query().
		Where(generatedimage.IDEQ(img.ID)).
		Exist(ctx)
	if err != nil {
		return wrapf("check generated image exists", err)
	}
	if !exists {
		create := r.Client.GeneratedImage.Create().
			SetID(img.ID).
			SetPromptID(img.PromptID).
			SetSceneID(img.SceneID).
			SetNillableImagePointer(nonEmpty(img.ImagePointer)).
			SetStatus(generatedimage.Status(img.Status)).
			SetNillableModelVersion(nonEmpty(img.ModelVersion)).
			SetSeed(img.Seed).
			SetGenerationTimeMs(img.GenerationTime.Milliseconds()).
			SetCost(img.Cost).
			SetNillableErrorDetail(nonEmpty(img.ErrorDetail)).
			SetVersion(img.Version).
			SetSelected(img.Selected).
			SetNillableReplacedImageID(nonEmpty(img.ReplacedImageID)).
			SetCreatedAt(img.CreatedAt)
		if img.ReplacedAt != nil {
			create = create.SetReplacedAt(*img.ReplacedAt)
		}
		_, err := create.Save(ctx)
		return wrapf("create generated image", err)
	}

	update := r.Client.GeneratedImage.UpdateOneID(img.ID).
		SetNillableImagePointer(nonEmpty(img.ImagePointer)).
		SetStatus(generatedimage.Status(img.Status)).
		SetSelected(img.Selected).
		SetNillableErrorDetail(nonEmpty(img.ErrorDetail)).
		SetVersion(img.Version).
		SetNillableReplacedImageID(nonEmpty(img.ReplacedImageID))
	if img.ReplacedAt != nil {
		update = update.SetReplacedAt(*img.ReplacedAt)
	}
	return wrapf("update generated image", update.Exec(ctx))
}

// ListImagesByScene returns every generation attempt for a scene.
func (r *Repo) ListImagesByScene(ctx context.Context, sceneID string) ([]models.GeneratedImage, error) {
	rows, err := r.Client.GeneratedImage.Query().
		Where(generatedimage.SceneIDEQ(sceneID)).
		All(ctx)
	if err != nil {
		return nil, wrapf("list generated images", err)
	}
	out := make([]models.GeneratedImage, len(rows))
	for i, row := range rows {
		out[i] = generatedImageFromEnt(row)
	}
	return out, nil
}

func generatedImageFromEnt(row *ent.GeneratedImage) models.GeneratedImage {
	return models.GeneratedImage{
		ID:              row.ID,
		PromptID:        row.PromptID,
		SceneID:         row.SceneID,
		ImagePointer:    row.ImagePointer,
		Status:          models.ImageStatus(row.Status),
		ModelVersion:    row.ModelVersion,
		Seed:            row.Seed,
		GenerationTime:  millisToDuration(row.GenerationTimeMs),
		Cost:            row.Cost,
		ErrorDetail:     row.ErrorDetail,
		Version:         row.Version,
		Selected:        row.Selected,
		ReplacedImageID: row.ReplacedImageID,
		ReplacedAt:      row.ReplacedAt,
		CreatedAt:       row.CreatedAt,
	}
}

func millisToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
