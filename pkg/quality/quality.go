// Package quality implements the Quality Assessor: scores a generated
// image on adherence, technical, aesthetic and safety axes.
package quality

import (
	"context"
	"fmt"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/textmodel"
	"github.com/novelenchant/enchant/pkg/textnorm"
)

// Axis weights per §4.11.
const (
	weightAdherence = 0.40
	weightTechnical = 0.30
	weightAesthetic = 0.20
	weightSafety    = 0.10

	safetyCap = 0.3
)

// TechnicalMetrics are the raw per-frame measurements an image-analysis
// collaborator would compute; injected so the composite formula is
// independently testable.
type TechnicalMetrics struct {
	Sharpness  float64
	Exposure   float64
	Composition float64
	Artefacts  float64
}

// AestheticMetrics are the raw style/aesthetic scores.
type AestheticMetrics struct {
	StyleConsistency float64
	GeneralAesthetic float64
}

// SafetyVerdict is the binary content-safety outcome.
type SafetyVerdict struct {
	Safe  bool
	Score float64
}

// Assess scores a generated image against its prompt and optional scene
// context, via the text model's vision capability for adherence.
func Assess(ctx context.Context, client textmodel.Client, newID func() string, imageID, imagePointer, promptText, sceneContext string, technical TechnicalMetrics, aesthetic AestheticMetrics, safety SafetyVerdict) (models.QualityReport, error) {
	adherence, err := client.AssessAdherence(ctx, imagePointer, promptText, sceneContext)
	if err != nil {
		return models.QualityReport{}, fmt.Errorf("quality: assess adherence: %w", err)
	}

	components := models.ComponentScores{
		Adherence: textnorm.Clamp01(adherence.Score),
		Technical: technicalComposite(technical),
		Aesthetic: aestheticComposite(aesthetic),
		Safety:    safety.Score,
	}

	overall := weightAdherence*components.Adherence +
		weightTechnical*components.Technical +
		weightAesthetic*components.Aesthetic +
		weightSafety*components.Safety

	if !safety.Safe && overall > safetyCap {
		overall = safetyCap
	}

	report := models.QualityReport{
		ID:         newID(),
		ImageID:    imageID,
		Overall:    textnorm.Clamp01(overall),
		Components: components,
		SafetyOK:   safety.Safe,
	}

	report.Issues = append(report.Issues, adherence.Notes...)
	if !safety.Safe {
		report.Issues = append(report.Issues, "content safety verdict failed")
	}

	return report, nil
}

func technicalComposite(m TechnicalMetrics) float64 {
	return textnorm.Clamp01((m.Sharpness + m.Exposure + m.Composition + (1 - m.Artefacts)) / 4)
}

func aestheticComposite(m AestheticMetrics) float64 {
	return textnorm.Clamp01((m.StyleConsistency + m.GeneralAesthetic) / 2)
}
