// Package imagegen implements the Image Generator: dispatches a composed
// prompt to the image model with retry and version-replacement semantics.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/novelenchant/enchant/pkg/imagemodel"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

// SceneImages abstracts the repository lookups the replacement path
// needs: find the currently selected image for a scene, persist the new
// one, and a compensating read-back.
type SceneImages interface {
	Selected(ctx context.Context, sceneID string) (*models.GeneratedImage, error)
	Save(ctx context.Context, img models.GeneratedImage) error
}

// Generator dispatches GeneratedImage attempts.
type Generator struct {
	Client SceneImages
	Image  imagemodel.Client
	NewID  func() string
	Logger interface{ Warn(string, ...any) }
}

// Generate submits prompt for generation, retries transient failures,
// polls to a terminal status, and on success handles optional version
// replacement.
func (g *Generator) Generate(ctx context.Context, prompt models.Prompt, priority int, sceneID string, replaceExisting bool) (models.GeneratedImage, error) {
	var result imagemodel.GenerationResult

	policy := retrypolicy.Image
	policy.Retryable = func(err error) bool {
		return !errors.Is(err, imagemodel.ErrContentPolicyBlocked)
	}

	retryErr := retrypolicy.Do(ctx, policy, func(ctx context.Context) error {
		handle, err := g.Image.Submit(ctx, toRequest(prompt))
		if err != nil {
			return err
		}

		result, err = pollUntilTerminal(ctx, g.Image, handle)
		return err
	})

	img := models.GeneratedImage{
		ID:           g.NewID(),
		PromptID:     prompt.ID,
		SceneID:      sceneID,
		ModelVersion: result.ModelVersion,
		Seed:         result.Seed,
		Cost:         result.Cost,
		Version:      1,
		Selected:     true,
		CreatedAt:    time.Now(),
	}

	switch {
	case retryErr != nil && errors.Is(retryErr, imagemodel.ErrContentPolicyBlocked):
		img.Status = models.ImageStatusError
		img.ErrorDetail = "policy"
		img.Selected = false
	case retryErr != nil:
		img.Status = models.ImageStatusError
		img.ErrorDetail = retryErr.Error()
		img.Selected = false
	case result.Status == imagemodel.GenerationStatusSucceeded:
		img.Status = models.ImageStatusSuccess
		img.ImagePointer = result.ImagePointer
	default:
		img.Status = models.ImageStatusError
		img.ErrorDetail = result.ErrorDetail
		img.Selected = false
	}

	if img.Status == models.ImageStatusSuccess && replaceExisting && sceneID != "" {
		if err := g.replaceSelected(ctx, sceneID, &img); err != nil {
			g.warn("replacement failed, logged and compensated", "scene_id", sceneID, "error", err)
		}
	}

	if g.Client != nil {
		if err := g.Client.Save(ctx, img); err != nil {
			return img, fmt.Errorf("imagegen: persist image: %w", err)
		}
	}

	return img, nil
}

func (g *Generator) replaceSelected(ctx context.Context, sceneID string, newImg *models.GeneratedImage) error {
	previous, err := g.Client.Selected(ctx, sceneID)
	if err != nil {
		return fmt.Errorf("imagegen: lookup selected: %w", err)
	}
	if previous == nil {
		return nil
	}

	now := time.Now()
	demoted := *previous
	demoted.Selected = false
	demoted.ReplacedAt = &now

	newImg.Version = previous.Version + 1
	newImg.ReplacedImageID = previous.ID

	if err := g.Client.Save(ctx, demoted); err != nil {
		// The demote didn't persist, so the new attempt must not claim
		// selection too. Read back what the repository still reports as
		// selected and force-demote it, so a stray duplicate never
		// outlives this call.
		newImg.Selected = false
		if again, rerr := g.Client.Selected(ctx, sceneID); rerr == nil && again != nil && again.Selected {
			again.Selected = false
			again.ReplacedAt = &now
			_ = g.Client.Save(ctx, *again)
		}
		return fmt.Errorf("imagegen: demote previous: %w", err)
	}

	newImg.Selected = true
	return nil
}

func (g *Generator) warn(msg string, args ...any) {
	if g.Logger != nil {
		g.Logger.Warn(msg, args...)
	}
}

func toRequest(prompt models.Prompt) imagemodel.GenerationRequest {
	refs := make([]imagemodel.ReferenceInput, 0, len(prompt.References))
	for _, r := range prompt.References {
		refs = append(refs, imagemodel.ReferenceInput{ImagePointer: r.ImagePointer, Weight: r.Weight})
	}

	return imagemodel.GenerationRequest{
		PromptText:   prompt.Text,
		NegativeText: prompt.NegativeText,
		References:   refs,
		Width:        prompt.Technical.Width,
		Height:       prompt.Technical.Height,
		Steps:        prompt.Technical.Steps,
		CFGScale:     prompt.Technical.CFGScale,
		Sampler:      prompt.Technical.Sampler,
	}
}

func pollUntilTerminal(ctx context.Context, client imagemodel.Client, handle imagemodel.GenerationHandle) (imagemodel.GenerationResult, error) {
	deadline := time.Now().Add(imagemodel.PollCeiling)
	for {
		result, err := client.Poll(ctx, handle)
		if err != nil {
			if errors.Is(err, imagemodel.ErrContentPolicyBlocked) {
				return result, err
			}
			return imagemodel.GenerationResult{}, err
		}
		if result.Status != imagemodel.GenerationStatusPending {
			return result, nil
		}
		if time.Now().After(deadline) {
			return imagemodel.GenerationResult{}, fmt.Errorf("imagegen: polling exceeded ceiling")
		}
		select {
		case <-ctx.Done():
			return imagemodel.GenerationResult{}, ctx.Err()
		case <-time.After(imagemodel.PollInterval):
		}
	}
}
