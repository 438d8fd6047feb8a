package config

import (
	"testing"
	"time"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
	"github.com/stretchr/testify/assert"
)

func TestMergeStylePresets_UserOverridesBuiltin(t *testing.T) {
	builtin := map[string]models.StylePreset{
		"watercolor": {Name: "watercolor", BasePrompt: "builtin prompt"},
	}
	user := map[string]models.StylePreset{
		"watercolor": {Name: "watercolor", BasePrompt: "custom prompt"},
		"cyberpunk":  {Name: "cyberpunk", BasePrompt: "neon city"},
	}

	merged := mergeStylePresets(builtin, user)

	assert.Equal(t, "custom prompt", merged["watercolor"].BasePrompt)
	assert.Equal(t, "neon city", merged["cyberpunk"].BasePrompt)
}

func TestMergeStylePresets_KeepsBuiltinWhenNoOverride(t *testing.T) {
	builtin := map[string]models.StylePreset{
		"noir": {Name: "noir", BasePrompt: "builtin noir"},
	}
	merged := mergeStylePresets(builtin, nil)
	assert.Equal(t, "builtin noir", merged["noir"].BasePrompt)
}

func TestMergeRetryPolicies_PartialOverride(t *testing.T) {
	builtin := map[string]retrypolicy.Policy{
		"image": {MaxAttempts: 3, BaseDelay: time.Second, Factor: 2.0},
	}
	user := map[string]RetryPolicyOverride{
		"image": {MaxAttempts: 5},
	}

	merged := mergeRetryPolicies(builtin, user)

	assert.Equal(t, 5, merged["image"].MaxAttempts)
	assert.Equal(t, time.Second, merged["image"].BaseDelay, "unset fields keep the built-in value")
	assert.Equal(t, 2.0, merged["image"].Factor)
}

func TestMergeRetryPolicies_NoOverrides(t *testing.T) {
	builtin := map[string]retrypolicy.Policy{
		"text": {MaxAttempts: 2, BaseDelay: 500 * time.Millisecond, Factor: 2.0},
	}
	merged := mergeRetryPolicies(builtin, nil)
	assert.Equal(t, builtin["text"], merged["text"])
}
