package scene

import (
	"context"
	"strings"
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	scenes []textmodel.RawScene
	err    error
}

func (f *fakeClient) ExtractScenes(ctx context.Context, chunkText string, workCtx textmodel.WorkContext, maxScenes int) ([]textmodel.RawScene, error) {
	return f.scenes, f.err
}

func (f *fakeClient) ExtractEntities(ctx context.Context, sceneText string, knownMentions []string) ([]textmodel.RawEntity, error) {
	return nil, nil
}

func (f *fakeClient) AssessAdherence(ctx context.Context, imagePointer, promptText, sceneContext string) (textmodel.AdherenceAssessment, error) {
	return textmodel.AdherenceAssessment{}, nil
}

func TestExtract_SkipsShortChunks(t *testing.T) {
	client := &fakeClient{scenes: []textmodel.RawScene{{Text: "x", VisualScore: 1, ImpactScore: 1}}}
	scenes, err := Extract(context.Background(), client, "too short", textmodel.WorkContext{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, scenes)
}

func TestExtract_ClampsScoresAndMapsEnums(t *testing.T) {
	client := &fakeClient{scenes: []textmodel.RawScene{
		{Text: "She ran through the burning hall.", VisualScore: 1.5, ImpactScore: -0.2, TimeOfDay: "Sunset", EmotionalTone: "Suspenseful"},
	}}
	scenes, err := Extract(context.Background(), client, strings.Repeat("word ", 30), textmodel.WorkContext{}, Options{})
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, 1.0, scenes[0].VisualScore)
	assert.Equal(t, 0.0, scenes[0].ImpactScore)
	assert.Equal(t, models.TimeOfDayDusk, scenes[0].TimeOfDay)
	assert.Equal(t, models.ToneTense, scenes[0].EmotionalTone)
}

func TestExtract_FiltersBelowMinima(t *testing.T) {
	client := &fakeClient{scenes: []textmodel.RawScene{
		{Text: "x", VisualScore: 0.1, ImpactScore: 0.1},
		{Text: "y", VisualScore: 0.9, ImpactScore: 0.9},
	}}
	scenes, err := Extract(context.Background(), client, strings.Repeat("word ", 30), textmodel.WorkContext{}, Options{MinVisualScore: 0.5, MinImpactScore: 0.5})
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, 0.9, scenes[0].VisualScore)
}

func TestExtract_SortsByImpactDescending(t *testing.T) {
	client := &fakeClient{scenes: []textmodel.RawScene{
		{Text: "a", VisualScore: 0.5, ImpactScore: 0.3},
		{Text: "b", VisualScore: 0.5, ImpactScore: 0.9},
	}}
	scenes, err := Extract(context.Background(), client, strings.Repeat("word ", 30), textmodel.WorkContext{}, Options{})
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, "b", scenes[0].Text)
}

func TestExtract_PropagatesExtractionFormatError(t *testing.T) {
	client := &fakeClient{err: textmodel.ErrExtractionFormat}
	_, err := Extract(context.Background(), client, strings.Repeat("word ", 30), textmodel.WorkContext{}, Options{})
	require.Error(t, err)
}
