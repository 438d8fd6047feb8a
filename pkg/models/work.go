// Package models holds the plain, persistence-agnostic domain types shared
// across the pipeline: Work, Chapter, Scene, Entity and friends (§3 of the
// specification). Pure-logic components (chunker, mention finder, resolver,
// merger, evolution tracker, prompt composer) operate entirely on these
// types; pkg/repo is the only package that translates them to and from the
// generated ent client.
package models

import "time"

// ContentType classifies how a Work was detected to be structured.
type ContentType string

const (
	ContentTypeSingle   ContentType = "single"
	ContentTypeMulti    ContentType = "multi"
	ContentTypeFullBook ContentType = "full_book"
)

// WorkStatus mirrors the scheduler's aggregate projection for a Work.
type WorkStatus string

const (
	WorkStatusPending    WorkStatus = "pending"
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusCompleted  WorkStatus = "completed"
	WorkStatusFailed     WorkStatus = "failed"
)

// DetectionMetadata captures what the parsing collaborator (or the core's
// own length-based fallback) observed about a work's structure.
type DetectionMetadata struct {
	Patterns              []string `json:"patterns,omitempty"`
	StructuralIndicators   []string `json:"structural_indicators,omitempty"`
	WordCount              int      `json:"word_count"`
	Confidence             float64  `json:"confidence"`
}

// Work is an entire ingested piece, possibly spanning many chapters.
type Work struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	StylePreset    string            `json:"style_preset"`
	CustomStyle    string            `json:"custom_style,omitempty"`
	ContentType    ContentType       `json:"content_type"`
	Detection      DetectionMetadata `json:"detection_metadata"`
	TotalChapters  int               `json:"total_chapters"`
	Status         WorkStatus        `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ChapterStatus is the lifecycle of a single Chapter's processing.
type ChapterStatus string

const (
	ChapterStatusPending    ChapterStatus = "pending"
	ChapterStatusProcessing ChapterStatus = "processing"
	ChapterStatusCompleted  ChapterStatus = "completed"
	ChapterStatusFailed     ChapterStatus = "failed"
)

// Chapter is one chapter of a Work; text is immutable once ingested.
type Chapter struct {
	ID        string        `json:"id"`
	WorkID    string        `json:"work_id"`
	Ordinal   int           `json:"ordinal"` // 1-based
	Title     string        `json:"title,omitempty"`
	Text      string        `json:"text"`
	WordCount int           `json:"word_count"`
	Status    ChapterStatus `json:"status"`
	ErrorMsg  string        `json:"error_message,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
