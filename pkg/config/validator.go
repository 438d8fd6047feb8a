package config

import (
	"fmt"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

// Validate checks a fully-assembled Config for internally consistent,
// in-range values. It runs once at startup (Initialize); components
// downstream trust the values they receive.
func Validate(cfg *Config) error {
	if err := validateThresholds(cfg.Env); err != nil {
		return err
	}
	if err := validateStylePresets(cfg.StylePresets); err != nil {
		return err
	}
	if err := validateRetryPolicies(cfg.RetryPolicies); err != nil {
		return err
	}
	return nil
}

func validateThresholds(e EnvConfig) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"MIN_VISUAL_SCORE", e.MinVisualScore},
		{"MIN_IMPACT_SCORE", e.MinImpactScore},
		{"MIN_RESOLVER_CONFIDENCE", e.MinResolverConfidence},
		{"SIMILARITY_THRESHOLD", e.SimilarityThreshold},
	} {
		if f.value < 0 || f.value > 1 {
			return NewValidationError("threshold", "", f.name,
				fmt.Errorf("%w: must be within [0,1], got %v", ErrInvalidValue, f.value))
		}
	}
	if e.WorkerCount < 1 {
		return NewValidationError("threshold", "", "WORKER_COUNT",
			fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidValue, e.WorkerCount))
	}
	if e.MaxAlternatives < 1 {
		return NewValidationError("threshold", "", "MAX_ALTERNATIVES",
			fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidValue, e.MaxAlternatives))
	}
	if e.MaxModificationsPerRequest < 1 {
		return NewValidationError("threshold", "", "MAX_MODIFICATIONS_PER_REQUEST",
			fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidValue, e.MaxModificationsPerRequest))
	}
	return nil
}

func validateStylePresets(presets map[string]models.StylePreset) error {
	for name, preset := range presets {
		if preset.BasePrompt == "" {
			return NewValidationError("style_preset", name, "base_prompt",
				fmt.Errorf("%w", ErrMissingRequiredField))
		}
	}
	return nil
}

func validateRetryPolicies(policies map[string]retrypolicy.Policy) error {
	for name, policy := range policies {
		if policy.MaxAttempts < 1 {
			return NewValidationError("retry_policy", name, "max_attempts",
				fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidValue, policy.MaxAttempts))
		}
	}
	return nil
}
