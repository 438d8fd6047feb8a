// Package textmodel specifies the external text model's capability
// contract: structured scene extraction, new-entity extraction, and
// image-quality adherence assessment. The concrete client is an HTTP
// adapter; the core only depends on the Client interface.
package textmodel

import (
	"context"
	"errors"
)

// ErrUpstreamTransient marks a failure the caller should retry.
var ErrUpstreamTransient = errors.New("textmodel: upstream transient error")

// ErrExtractionFormat marks a structurally malformed model reply.
var ErrExtractionFormat = errors.New("textmodel: malformed extraction reply")

// WorkContext is the narrative context supplied alongside extraction
// requests: the work's title, style preset, and the names already known
// to the entity set, used to bias the model away from re-discovering them.
type WorkContext struct {
	Title             string
	StylePreset       string
	KnownCharacters   []string
	KnownLocations    []string
}

// RawScene is the text model's unnormalized scene extraction reply for
// one candidate scene; the scene extractor clamps and maps it onto the
// closed domain enums.
type RawScene struct {
	Text          string
	Summary       string
	VisualScore   float64
	ImpactScore   float64
	TimeOfDay     string
	EmotionalTone string
	DialogueRatio float64
}

// RawEntity is the text model's unnormalized new-entity extraction reply.
type RawEntity struct {
	Name        string
	Kind        string
	Description string
	Aliases     []string
}

// AdherenceAssessment is the text model's vision-capability verdict on how
// closely a generated image matches its prompt and scene context.
type AdherenceAssessment struct {
	Score float64
	Notes []string
}

// Client is the capability surface the core pipeline depends on.
type Client interface {
	// ExtractScenes asks for visually compelling scenes within chunkText.
	ExtractScenes(ctx context.Context, chunkText string, workCtx WorkContext, maxScenes int) ([]RawScene, error)

	// ExtractEntities asks for characters/locations in sceneText not
	// already present in knownMentions.
	ExtractEntities(ctx context.Context, sceneText string, knownMentions []string) ([]RawEntity, error)

	// AssessAdherence scores how well imagePointer matches promptText and
	// optional sceneContext.
	AssessAdherence(ctx context.Context, imagePointer, promptText, sceneContext string) (AdherenceAssessment, error)
}
