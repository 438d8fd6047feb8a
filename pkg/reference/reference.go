// Package reference implements the Reference Image Manager: ensures each
// active entity has at least one reference image in the current style,
// generating via the image model or ingesting direct uploads.
package reference

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/novelenchant/enchant/pkg/imagemodel"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/objectstore"
)

// ErrUnsupportedFormat marks an upload whose content type isn't allowed.
var ErrUnsupportedFormat = errors.New("reference: unsupported image format")

// ErrOversizedInput marks an upload outside the size/dimension bounds.
var ErrOversizedInput = errors.New("reference: input outside bounds")

const (
	minBlobSize   = 1024        // 1 KiB
	minDimension  = 256
	maxDimension  = 4096
	downscaleSide = 1024
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Composition modifiers keyed on entity kind and description keywords.
var kindModifiers = map[models.EntityKind]string{
	models.EntityKindCharacter: "full-body portrait, neutral expression, clear facial features",
	models.EntityKindLocation:  "wide establishing shot, architectural detail",
}

var roleKeywordModifiers = []struct {
	keyword  string
	modifier string
}{
	{"warrior", "battle-worn armor, weapon at hand"},
	{"mage", "arcane robes, mystical aura"},
	{"royal", "regal attire, ornate jewelry"},
	{"young", "youthful features"},
	{"old", "weathered, aged features"},
	{"castle", "stone battlements, towering spires"},
	{"forest", "dense canopy, dappled light"},
}

const referenceRequirements = "clean background, consistent design, multiple angles"

// Manager dispatches reference-image generation and upload ingestion and
// holds the collaborators it needs.
type Manager struct {
	ImageClient imagemodel.Client
	Store       objectstore.Store
	MaxBlobSize int
	NewID       func() string
	NewPath     func() string
}

// composePrompt builds the reference-image generation prompt per §4.8.
func composePrompt(entity models.Entity, style models.StylePreset, ageTag string) string {
	var parts []string
	if entity.Description != "" {
		parts = append(parts, entity.Description)
	}
	if ageTag != "" {
		parts = append(parts, ageTag)
	}
	parts = append(parts, kindModifiers[entity.Kind])

	lowerDesc := strings.ToLower(entity.Description)
	for _, rm := range roleKeywordModifiers {
		if strings.Contains(lowerDesc, rm.keyword) {
			parts = append(parts, rm.modifier)
		}
	}

	if style.BasePrompt != "" {
		parts = append(parts, style.BasePrompt)
	}
	parts = append(parts, referenceRequirements)

	return strings.Join(parts, ", ")
}

// EnsureReference generates a fresh reference image for entity under
// style, at chapter atChapter, with the given priority.
func (m *Manager) EnsureReference(ctx context.Context, entity models.Entity, style models.StylePreset, atChapter int, ageTag string, priority int) (models.EntityReference, error) {
	prompt := composePrompt(entity, style, ageTag)

	handle, err := m.ImageClient.Submit(ctx, imagemodel.GenerationRequest{PromptText: prompt})
	if err != nil {
		return models.EntityReference{}, fmt.Errorf("reference: submit generation: %w", err)
	}

	result, err := pollUntilTerminal(ctx, m.ImageClient, handle)
	if err != nil {
		return models.EntityReference{}, fmt.Errorf("reference: poll generation: %w", err)
	}
	if result.Status != imagemodel.GenerationStatusSucceeded {
		return models.EntityReference{}, fmt.Errorf("reference: generation failed: %s", result.ErrorDetail)
	}

	return models.EntityReference{
		ID:               m.NewID(),
		EntityID:         entity.ID,
		ImagePointer:     result.ImagePointer,
		AddedAtChapter:   atChapter,
		AgeTag:           ageTag,
		StylePreset:      style.Name,
		Description:      entity.Description,
		Active:           true,
		Priority:         priority,
		GenerationMethod: models.GenerationMethodAI,
		SourcePrompt:     prompt,
		CreatedAt:        time.Now(),
	}, nil
}

func pollUntilTerminal(ctx context.Context, client imagemodel.Client, handle imagemodel.GenerationHandle) (imagemodel.GenerationResult, error) {
	deadline := time.Now().Add(imagemodel.PollCeiling)
	for {
		result, err := client.Poll(ctx, handle)
		if err != nil {
			return imagemodel.GenerationResult{}, err
		}
		if result.Status != imagemodel.GenerationStatusPending {
			return result, nil
		}
		if time.Now().After(deadline) {
			return imagemodel.GenerationResult{}, fmt.Errorf("reference: polling exceeded ceiling")
		}
		select {
		case <-ctx.Done():
			return imagemodel.GenerationResult{}, ctx.Err()
		case <-time.After(imagemodel.PollInterval):
		}
	}
}

// IngestUpload validates and persists a directly uploaded image blob,
// creating an EntityReference with generation_method=uploaded.
func (m *Manager) IngestUpload(ctx context.Context, blob []byte, contentType string, entityID string, width, height int, priority int, style models.StylePreset, atChapter int) (models.EntityReference, error) {
	maxSize := m.MaxBlobSize
	if maxSize == 0 {
		maxSize = 10 * 1024 * 1024
	}

	if _, ok := allowedTypes[contentType]; !ok {
		return models.EntityReference{}, ErrUnsupportedFormat
	}
	if len(blob) < minBlobSize || len(blob) > maxSize {
		return models.EntityReference{}, ErrOversizedInput
	}
	if width < minDimension || width > maxDimension || height < minDimension || height > maxDimension {
		return models.EntityReference{}, ErrOversizedInput
	}

	path := m.NewPath()
	pointer, err := m.Store.Put(ctx, path, blob, contentType)
	if err != nil {
		return models.EntityReference{}, fmt.Errorf("reference: store upload: %w", err)
	}

	return models.EntityReference{
		ID:               m.NewID(),
		EntityID:         entityID,
		ImagePointer:     pointer,
		AddedAtChapter:   atChapter,
		StylePreset:      style.Name,
		Active:           true,
		Priority:         priority,
		GenerationMethod: models.GenerationMethodUploaded,
		CreatedAt:        time.Now(),
	}, nil
}

// Select returns the up-to-3 active references for entity under style,
// highest priority first with ties broken by most recent added-at-chapter.
func Select(refs []models.EntityReference, style string) []models.EntityReference {
	var candidates []models.EntityReference
	for _, r := range refs {
		if r.Active && r.StylePreset == style {
			candidates = append(candidates, r)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].AddedAtChapter > candidates[j].AddedAtChapter
	})

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	return candidates
}
