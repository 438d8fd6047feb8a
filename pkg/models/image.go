package models

import "time"

// ImageStatus is a GeneratedImage's terminal or in-flight state.
type ImageStatus string

const (
	ImageStatusSuccess    ImageStatus = "success"
	ImageStatusError      ImageStatus = "error"
	ImageStatusInProgress ImageStatus = "in-progress"
)

// GeneratedImage is one image-generation attempt against a Prompt. Within
// a scene, exactly one GeneratedImage is Selected at any time.
type GeneratedImage struct {
	ID              string      `json:"id"`
	PromptID        string      `json:"prompt_id"`
	SceneID         string      `json:"scene_id"`
	ImagePointer    string      `json:"image_pointer,omitempty"`
	Status          ImageStatus `json:"status"`
	ModelVersion    string      `json:"model_version"`
	Seed            int64       `json:"seed"`
	GenerationTime  time.Duration `json:"generation_time"`
	Cost            float64     `json:"cost"`
	ErrorDetail     string      `json:"error_detail,omitempty"`
	Version         int         `json:"version"`
	Selected        bool        `json:"selected"`
	ReplacedImageID string      `json:"replaced_image_id,omitempty"`
	ReplacedAt      *time.Time  `json:"replaced_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}
