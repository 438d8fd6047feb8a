package imagegen

import (
	"context"
	"errors"
	"testing"

	"github.com/novelenchant/enchant/pkg/imagemodel"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImage struct {
	result imagemodel.GenerationResult
	err    error
}

func (f *fakeImage) Submit(ctx context.Context, req imagemodel.GenerationRequest) (imagemodel.GenerationHandle, error) {
	return imagemodel.GenerationHandle{JobID: "j1"}, nil
}

func (f *fakeImage) Poll(ctx context.Context, handle imagemodel.GenerationHandle) (imagemodel.GenerationResult, error) {
	return f.result, f.err
}

type fakeSceneImages struct {
	selected    *models.GeneratedImage
	saved       []models.GeneratedImage
	failDemotes int
}

func (f *fakeSceneImages) Selected(ctx context.Context, sceneID string) (*models.GeneratedImage, error) {
	return f.selected, nil
}

func (f *fakeSceneImages) Save(ctx context.Context, img models.GeneratedImage) error {
	if !img.Selected && f.failDemotes > 0 {
		f.failDemotes--
		return errors.New("persistence unavailable")
	}
	f.saved = append(f.saved, img)
	if !img.Selected {
		f.selected = &img
		f.selected.Selected = false
	}
	return nil
}

func TestGenerate_SuccessProducesSelectedImage(t *testing.T) {
	client := &fakeImage{result: imagemodel.GenerationResult{Status: imagemodel.GenerationStatusSucceeded, ImagePointer: "ptr"}}
	repo := &fakeSceneImages{}
	gen := &Generator{Client: repo, Image: client, NewID: func() string { return "img-1" }}

	img, err := gen.Generate(context.Background(), models.Prompt{ID: "p1"}, 1, "scene-1", false)
	require.NoError(t, err)
	assert.Equal(t, models.ImageStatusSuccess, img.Status)
	assert.True(t, img.Selected)
}

func TestGenerate_ContentPolicyBlockNotRetried(t *testing.T) {
	client := &fakeImage{err: imagemodel.ErrContentPolicyBlocked}
	repo := &fakeSceneImages{}
	gen := &Generator{Client: repo, Image: client, NewID: func() string { return "img-1" }}

	img, err := gen.Generate(context.Background(), models.Prompt{ID: "p1"}, 1, "scene-1", false)
	require.NoError(t, err)
	assert.Equal(t, models.ImageStatusError, img.Status)
	assert.Equal(t, "policy", img.ErrorDetail)
	assert.False(t, img.Selected)
}

func TestGenerate_ReplacementVersionsUp(t *testing.T) {
	client := &fakeImage{result: imagemodel.GenerationResult{Status: imagemodel.GenerationStatusSucceeded, ImagePointer: "ptr2"}}
	repo := &fakeSceneImages{selected: &models.GeneratedImage{ID: "old-img", Version: 1, Selected: true}}
	gen := &Generator{Client: repo, Image: client, NewID: func() string { return "img-2" }}

	img, err := gen.Generate(context.Background(), models.Prompt{ID: "p1"}, 1, "scene-1", true)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Version)
	assert.Equal(t, "old-img", img.ReplacedImageID)
	require.Len(t, repo.saved, 2)
	assert.False(t, repo.saved[0].Selected)
}

func TestGenerate_DemoteSaveFailureIsCompensatedByReadback(t *testing.T) {
	client := &fakeImage{result: imagemodel.GenerationResult{Status: imagemodel.GenerationStatusSucceeded, ImagePointer: "ptr3"}}
	repo := &fakeSceneImages{
		selected:    &models.GeneratedImage{ID: "old-img", Version: 1, Selected: true},
		failDemotes: 1,
	}
	gen := &Generator{Client: repo, Image: client, NewID: func() string { return "img-3" }}

	img, err := gen.Generate(context.Background(), models.Prompt{ID: "p1"}, 1, "scene-1", true)
	require.NoError(t, err)

	assert.False(t, img.Selected, "new attempt must not claim selection when the demote failed to persist")
	for _, saved := range repo.saved {
		if saved.ID == "old-img" {
			assert.False(t, saved.Selected, "read-back must force-demote the stray selected image")
		}
	}
}
