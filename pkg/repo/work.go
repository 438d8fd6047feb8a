package repo

import (
	"context"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/ent/work"
	"github.com/novelenchant/enchant/pkg/models"
)

// CreateWork persists a newly-ingested Work.
func (r *Repo) CreateWork(ctx context.Context, w models.Work) (models.Work, error) {
	row, err := r.Client.Work.Create().
		SetID(w.ID).
		SetTitle(w.Title).
		SetStylePreset(w.StylePreset).
		SetNillableCustomStyle(nonEmpty(w.CustomStyle)).
		SetContentType(work.ContentType(w.ContentType)).
		SetDetectionMetadata(detectionToMap(w.Detection)).
		SetTotalChapters(w.TotalChapters).
		SetStatus(work.Status(w.Status)).
		SetCreatedAt(w.CreatedAt).
		Save(ctx)
	if err != nil {
		return models.Work{}, wrapf("create work", err)
	}
	return workFromEnt(row), nil
}

// GetWork loads a Work by id.
func (r *Repo) GetWork(ctx context.Context, id string) (models.Work, error) {
	row, err := r.Client.Work.Get(ctx, id)
	if err != nil {
		return models.Work{}, wrapf("get work", err)
	}
	return workFromEnt(row), nil
}

// UpdateWorkStatus transitions a Work's aggregate status (scheduler-owned).
func (r *Repo) UpdateWorkStatus(ctx context.Context, id string, status models.WorkStatus) error {
	err := r.Client.Work.UpdateOneID(id).
		SetStatus(work.Status(status)).
		Exec(ctx)
	return wrapf("update work status", err)
}

func workFromEnt(row *ent.Work) models.Work {
	return models.Work{
		ID:            row.ID,
		Title:         row.Title,
		StylePreset:   row.StylePreset,
		CustomStyle:   row.CustomStyle,
		ContentType:   models.ContentType(row.ContentType),
		Detection:     detectionFromMap(row.DetectionMetadata),
		TotalChapters: row.TotalChapters,
		Status:        models.WorkStatus(row.Status),
		CreatedAt:     row.CreatedAt,
	}
}

func detectionToMap(d models.DetectionMetadata) map[string]any {
	return map[string]any{
		"patterns":              d.Patterns,
		"structural_indicators": d.StructuralIndicators,
		"word_count":            d.WordCount,
		"confidence":            d.Confidence,
	}
}

func detectionFromMap(m map[string]any) models.DetectionMetadata {
	var d models.DetectionMetadata
	if m == nil {
		return d
	}
	if v, ok := m["patterns"].([]any); ok {
		for _, p := range v {
			if s, ok := p.(string); ok {
				d.Patterns = append(d.Patterns, s)
			}
		}
	}
	if v, ok := m["structural_indicators"].([]any); ok {
		for _, p := range v {
			if s, ok := p.(string); ok {
				d.StructuralIndicators = append(d.StructuralIndicators, s)
			}
		}
	}
	if v, ok := m["word_count"].(float64); ok {
		d.WordCount = int(v)
	}
	if v, ok := m["confidence"].(float64); ok {
		d.Confidence = v
	}
	return d
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
