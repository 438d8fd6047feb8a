package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuiltinConfig_Singleton(t *testing.T) {
	a := GetBuiltinConfig()
	b := GetBuiltinConfig()
	assert.Same(t, a, b)
}

func TestGetBuiltinConfig_StylePresets(t *testing.T) {
	builtin := GetBuiltinConfig()
	require.Contains(t, builtin.StylePresets, "watercolor")
	require.Contains(t, builtin.StylePresets, "noir")
	require.Contains(t, builtin.StylePresets, "manga")
	require.Contains(t, builtin.StylePresets, "realistic")

	for name, preset := range builtin.StylePresets {
		assert.NotEmpty(t, preset.BasePrompt, "preset %s must have a base prompt", name)
		assert.Greater(t, preset.Technical.Width, 0)
		assert.Greater(t, preset.Technical.Height, 0)
	}
}

func TestGetBuiltinConfig_RetryPolicies(t *testing.T) {
	builtin := GetBuiltinConfig()
	require.Contains(t, builtin.RetryPolicies, "image")
	require.Contains(t, builtin.RetryPolicies, "text")
	require.Contains(t, builtin.RetryPolicies, "persistence")

	for name, policy := range builtin.RetryPolicies {
		assert.GreaterOrEqual(t, policy.MaxAttempts, 1, "policy %s", name)
	}
}
