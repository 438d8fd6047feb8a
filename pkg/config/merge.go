package config

import (
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

// mergeStylePresets merges built-in and user-defined style presets.
// User-defined presets override built-in presets with the same name.
func mergeStylePresets(builtin, user map[string]models.StylePreset) map[string]models.StylePreset {
	result := make(map[string]models.StylePreset, len(builtin)+len(user))
	for name, preset := range builtin {
		result[name] = preset
	}
	for name, preset := range user {
		result[name] = preset
	}
	return result
}

// mergeRetryPolicies merges built-in and user-defined retry policies.
// A user override only needs to set the fields it changes (MaxAttempts,
// BaseDelay, Factor); unset fields keep the built-in value.
func mergeRetryPolicies(builtin map[string]retrypolicy.Policy, user map[string]RetryPolicyOverride) map[string]retrypolicy.Policy {
	result := make(map[string]retrypolicy.Policy, len(builtin))
	for name, policy := range builtin {
		result[name] = policy
	}
	for name, override := range user {
		policy := result[name]
		if override.MaxAttempts > 0 {
			policy.MaxAttempts = override.MaxAttempts
		}
		if override.BaseDelay > 0 {
			policy.BaseDelay = override.BaseDelay
		}
		if override.Factor > 0 {
			policy.Factor = override.Factor
		}
		result[name] = policy
	}
	return result
}
