package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("style_preset", "watercolor", "base_prompt", ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "style_preset")
	assert.Contains(t, err.Error(), "watercolor")
	assert.Contains(t, err.Error(), "base_prompt")
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestValidationError_ErrorWithoutID(t *testing.T) {
	err := NewValidationError("threshold", "", "MIN_VISUAL_SCORE", ErrInvalidValue)
	assert.Contains(t, err.Error(), "threshold")
	assert.Contains(t, err.Error(), "MIN_VISUAL_SCORE")
	assert.NotContains(t, err.Error(), "''")
}

func TestLoadError_Error(t *testing.T) {
	underlying := errors.New("file not found")
	err := NewLoadError("styles.yaml", underlying)
	assert.Contains(t, err.Error(), "styles.yaml")
	assert.ErrorIs(t, err, underlying)
}
