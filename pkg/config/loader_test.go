package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_BuiltinsOnlyWithoutConfigDir(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Initialize("")
	require.NoError(t, err)
	assert.Equal(t, GetBuiltinConfig().StylePresets, cfg.StylePresets)
	assert.Equal(t, GetBuiltinConfig().RetryPolicies, cfg.RetryPolicies)
}

func TestInitialize_OverlaysUserStyles(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styles.yaml"), `
style_presets:
  watercolor:
    name: watercolor
    base_prompt: overridden prompt
    technical:
      width: 512
      height: 512
      steps: 20
      cfg_scale: 5.0
      sampler: euler_a
`)

	cfg, err := Initialize(dir)
	require.NoError(t, err)
	assert.Equal(t, "overridden prompt", cfg.StylePresets["watercolor"].BasePrompt)
	assert.Equal(t, 512, cfg.StylePresets["watercolor"].Technical.Width)
	// Untouched built-ins survive the overlay.
	assert.Contains(t, cfg.StylePresets, "noir")
}

func TestInitialize_MissingRequiredEnvFails(t *testing.T) {
	t.Setenv("TEXT_MODEL_ENDPOINT", "")
	_, err := Initialize("")
	assert.Error(t, err)
}

func TestInitialize_InvalidThresholdFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MIN_VISUAL_SCORE", "1.5")

	_, err := Initialize("")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TEXT_MODEL_ENDPOINT", "https://text-model.internal")
	t.Setenv("TEXT_MODEL_API_KEY", "test-key")
	t.Setenv("IMAGE_MODEL_ENDPOINT", "https://image-model.internal")
	t.Setenv("IMAGE_MODEL_API_KEY", "test-key")
	t.Setenv("OBJECT_STORE_BUCKET", "test-bucket")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
