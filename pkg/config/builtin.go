package config

import (
	"sync"

	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

// BuiltinConfig holds the configuration shipped with the binary: default
// style presets and default retry policies. User-supplied YAML overlays
// these (see loader.go, merge.go) rather than replacing them wholesale.
type BuiltinConfig struct {
	StylePresets  map[string]models.StylePreset
	RetryPolicies map[string]retrypolicy.Policy
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration
// (thread-safe, lazily initialized on first use).
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	builtinConfig = &BuiltinConfig{
		StylePresets:  initBuiltinStylePresets(),
		RetryPolicies: initBuiltinRetryPolicies(),
	}
}

func initBuiltinStylePresets() map[string]models.StylePreset {
	return map[string]models.StylePreset{
		"watercolor": {
			Name:              "watercolor",
			BasePrompt:        "soft watercolor illustration, visible paper texture, muted palette, gentle brush strokes",
			NegativeExtension: "photorealistic, harsh lines, digital render artifacts",
			Technical: models.TechnicalParams{
				Width: 1024, Height: 1024, Steps: 30, CFGScale: 6.5, Sampler: "dpmpp_2m",
			},
		},
		"noir": {
			Name:              "noir",
			BasePrompt:        "high-contrast black and white noir illustration, dramatic shadows, film grain",
			NegativeExtension: "color, pastel, bright lighting",
			Technical: models.TechnicalParams{
				Width: 1024, Height: 1024, Steps: 35, CFGScale: 7.5, Sampler: "dpmpp_2m",
			},
		},
		"manga": {
			Name:              "manga",
			BasePrompt:        "black and white manga panel illustration, screentone shading, expressive linework",
			NegativeExtension: "color, photorealistic, 3d render",
			Technical: models.TechnicalParams{
				Width: 896, Height: 1152, Steps: 28, CFGScale: 7.0, Sampler: "euler_a",
			},
		},
		"realistic": {
			Name:              "realistic",
			BasePrompt:        "cinematic realistic illustration, natural lighting, fine detail",
			NegativeExtension: "cartoon, flat shading, low detail",
			Technical: models.TechnicalParams{
				Width: 1024, Height: 1024, Steps: 40, CFGScale: 6.0, Sampler: "dpmpp_2m",
			},
		},
	}
}

// initBuiltinRetryPolicies mirrors the per-component defaults declared in
// retrypolicy.Image/Text/Persistence, giving operators a YAML surface to
// override them without touching code.
func initBuiltinRetryPolicies() map[string]retrypolicy.Policy {
	return map[string]retrypolicy.Policy{
		"image":       retrypolicy.Image,
		"text":        retrypolicy.Text,
		"persistence": retrypolicy.Persistence,
	}
}
