package quality

import (
	"context"
	"testing"

	"github.com/novelenchant/enchant/pkg/textmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	assessment textmodel.AdherenceAssessment
}

func (f *fakeClient) ExtractScenes(ctx context.Context, chunkText string, workCtx textmodel.WorkContext, maxScenes int) ([]textmodel.RawScene, error) {
	return nil, nil
}
func (f *fakeClient) ExtractEntities(ctx context.Context, sceneText string, knownMentions []string) ([]textmodel.RawEntity, error) {
	return nil, nil
}
func (f *fakeClient) AssessAdherence(ctx context.Context, imagePointer, promptText, sceneContext string) (textmodel.AdherenceAssessment, error) {
	return f.assessment, nil
}

func fixedID() func() string { return func() string { return "qr-1" } }

func TestAssess_WeightedComposite(t *testing.T) {
	client := &fakeClient{assessment: textmodel.AdherenceAssessment{Score: 1.0}}
	report, err := Assess(context.Background(), client, fixedID(), "img-1", "ptr", "prompt", "",
		TechnicalMetrics{Sharpness: 1, Exposure: 1, Composition: 1, Artefacts: 0},
		AestheticMetrics{StyleConsistency: 1, GeneralAesthetic: 1},
		SafetyVerdict{Safe: true, Score: 1},
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, report.Overall, 1e-9)
}

func TestAssess_UnsafeCapsOverallScore(t *testing.T) {
	client := &fakeClient{assessment: textmodel.AdherenceAssessment{Score: 1.0}}
	report, err := Assess(context.Background(), client, fixedID(), "img-1", "ptr", "prompt", "",
		TechnicalMetrics{Sharpness: 1, Exposure: 1, Composition: 1, Artefacts: 0},
		AestheticMetrics{StyleConsistency: 1, GeneralAesthetic: 1},
		SafetyVerdict{Safe: false, Score: 0},
	)
	require.NoError(t, err)
	assert.LessOrEqual(t, report.Overall, 0.3)
	assert.False(t, report.SafetyOK)
	assert.Contains(t, report.Issues, "content safety verdict failed")
}

func TestAssess_TechnicalCompositeFormula(t *testing.T) {
	got := technicalComposite(TechnicalMetrics{Sharpness: 0.8, Exposure: 0.6, Composition: 0.4, Artefacts: 0.2})
	assert.InDelta(t, (0.8+0.6+0.4+0.8)/4, got, 1e-9)
}
