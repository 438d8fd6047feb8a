package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

func validEnv() EnvConfig {
	return EnvConfig{
		MinVisualScore:             0.6,
		MinImpactScore:             0.4,
		MinResolverConfidence:      0.5,
		SimilarityThreshold:        0.6,
		WorkerCount:                3,
		MaxAlternatives:            3,
		MaxModificationsPerRequest: 5,
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := &Config{
		Env: validEnv(),
		StylePresets: map[string]models.StylePreset{
			"watercolor": {BasePrompt: "soft watercolor illustration"},
		},
		RetryPolicies: map[string]retrypolicy.Policy{
			"default": {MaxAttempts: 3},
		},
	}
	assert.NoError(t, Validate(cfg))
}

func TestValidateThresholds_OutOfRange(t *testing.T) {
	env := validEnv()
	env.MinVisualScore = 1.5
	err := validateThresholds(env)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidateThresholds_WorkerCountBelowOne(t *testing.T) {
	env := validEnv()
	env.WorkerCount = 0
	err := validateThresholds(env)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WORKER_COUNT")
}

func TestValidateThresholds_MaxAlternativesBelowOne(t *testing.T) {
	env := validEnv()
	env.MaxAlternatives = 0
	err := validateThresholds(env)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ALTERNATIVES")
}

func TestValidateThresholds_MaxModificationsBelowOne(t *testing.T) {
	env := validEnv()
	env.MaxModificationsPerRequest = 0
	err := validateThresholds(env)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_MODIFICATIONS_PER_REQUEST")
}

func TestValidateStylePresets_MissingBasePrompt(t *testing.T) {
	presets := map[string]models.StylePreset{
		"noir": {},
	}
	err := validateStylePresets(presets)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "noir")
}

func TestValidateRetryPolicies_MaxAttemptsBelowOne(t *testing.T) {
	policies := map[string]retrypolicy.Policy{
		"default": {MaxAttempts: 0},
	}
	err := validateRetryPolicies(policies)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}
