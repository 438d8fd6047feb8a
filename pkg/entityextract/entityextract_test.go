package entityextract

import (
	"context"
	"testing"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	entities []textmodel.RawEntity
	calls    int
}

func (f *fakeClient) ExtractScenes(ctx context.Context, chunkText string, workCtx textmodel.WorkContext, maxScenes int) ([]textmodel.RawScene, error) {
	return nil, nil
}

func (f *fakeClient) ExtractEntities(ctx context.Context, sceneText string, knownMentions []string) ([]textmodel.RawEntity, error) {
	f.calls++
	return f.entities, nil
}

func (f *fakeClient) AssessAdherence(ctx context.Context, imagePointer, promptText, sceneContext string) (textmodel.AdherenceAssessment, error) {
	return textmodel.AdherenceAssessment{}, nil
}

func fixedID() NewIDFunc { return func() string { return "e-new" } }

func TestExtractNew_NoUnresolvedReturnsEmptyWithoutCalling(t *testing.T) {
	client := &fakeClient{entities: []textmodel.RawEntity{{Name: "Elara"}}}
	out, err := ExtractNew(context.Background(), client, "text", nil, nil, fixedID())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, client.calls)
}

func TestExtractNew_FiltersNonOverlapping(t *testing.T) {
	client := &fakeClient{entities: []textmodel.RawEntity{
		{Name: "Elara Windthorn", Kind: "character"},
		{Name: "Unrelated Name", Kind: "character"},
	}}
	unresolved := []models.Mention{{Text: "Elara"}}

	out, err := ExtractNew(context.Background(), client, "text", unresolved, nil, fixedID())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Elara Windthorn", out[0].Name)
}

func TestExtractNew_MapsKindToLocation(t *testing.T) {
	client := &fakeClient{entities: []textmodel.RawEntity{{Name: "Westmoor", Kind: "location"}}}
	unresolved := []models.Mention{{Text: "Westmoor"}}

	out, err := ExtractNew(context.Background(), client, "text", unresolved, nil, fixedID())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, models.EntityKindLocation, out[0].Kind)
}
