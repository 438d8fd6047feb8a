package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/qualityreport"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateQualityReport persists the one quality assessment produced for a
// successful GeneratedImage.
func (r *Repo) CreateQualityReport(ctx context.Context, q models.QualityReport) (models.QualityReport, error) {
	row, err := r.Client.QualityReport.Create().
		SetID(q.ID).
		SetImageID(q.ImageID).
		SetOverall(q.Overall).
		SetAdherenceScore(q.Components.Adherence).
		SetTechnicalScore(q.Components.Technical).
		SetAestheticScore(q.Components.Aesthetic).
		SetSafetyScore(q.Components.Safety).
		SetIssues(q.Issues).
		SetSuggestions(q.Suggestions).
		SetSafetyVerdict(q.SafetyOK).
		SetCreatedAt(q.CreatedAt).
		Save(ctx)
	if err != nil {
		return models.QualityReport{}, wrapf("create quality report", err)
	}
	return qualityReportFromEnt(row), nil
}

// GetQualityReportByImage loads the quality report for a GeneratedImage,
// if one has been produced.
func (r *Repo) GetQualityReportByImage(ctx context.Context, imageID string) (*models.QualityReport, error) {
	row, err := r.Client.QualityReport.Query().
		Where(qualityreport.ImageIDEQ(imageID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, wrapf("get quality report", err)
	}
	q := qualityReportFromEnt(row)
	return &q, nil
}

func qualityReportFromEnt(row *ent.QualityReport) models.QualityReport {
	return models.QualityReport{
		ID:      row.ID,
		ImageID: row.ImageID,
		Overall: row.Overall,
		Components: models.ComponentScores{
			Adherence: row.AdherenceScore,
			Technical: row.TechnicalScore,
			Aesthetic: row.AestheticScore,
			Safety:    row.SafetyScore,
		},
		Issues:      row.Issues,
		Suggestions: row.Suggestions,
		SafetyOK:    row.SafetyVerdict,
		CreatedAt:   row.CreatedAt,
	}
}
