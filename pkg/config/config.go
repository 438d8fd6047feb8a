// Package config assembles the service's environment-sourced primitives,
// a YAML-overlayable style-preset registry, and a YAML-overlayable
// retry-policy table into one ready-to-use Config, the way the reference
// service's own pkg/config composes registries from built-ins plus
// operator-supplied YAML.
package config

import (
	"github.com/novelenchant/enchant/pkg/chunk"
	"github.com/novelenchant/enchant/pkg/models"
	"github.com/novelenchant/enchant/pkg/pipeline"
	"github.com/novelenchant/enchant/pkg/promptcompose"
	"github.com/novelenchant/enchant/pkg/resolver"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
	"github.com/novelenchant/enchant/pkg/scene"
	"github.com/novelenchant/enchant/pkg/scheduler"
)

// Config is the umbrella configuration object returned by Initialize and
// used to wire up the pipeline, scheduler and API layer in cmd/enchant.
type Config struct {
	configDir string

	Env EnvConfig

	StylePresets  map[string]models.StylePreset
	RetryPolicies map[string]retrypolicy.Policy
}

// ConfigDir returns the directory Initialize loaded YAML overlays from,
// empty if none was configured.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ConfigStats summarizes loaded configuration for startup logging.
type ConfigStats struct {
	StylePresets  int
	RetryPolicies int
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() ConfigStats {
	return ConfigStats{
		StylePresets:  len(c.StylePresets),
		RetryPolicies: len(c.RetryPolicies),
	}
}

// GetStylePreset retrieves a style preset by name.
func (c *Config) GetStylePreset(name string) (models.StylePreset, error) {
	preset, ok := c.StylePresets[name]
	if !ok {
		return models.StylePreset{}, &ValidationError{
			Component: "style_preset", ID: name, Err: ErrStylePresetNotFound,
		}
	}
	return preset, nil
}

// GetRetryPolicy retrieves a retry policy by component name ("text",
// "image" or "persistence").
func (c *Config) GetRetryPolicy(name string) (retrypolicy.Policy, error) {
	policy, ok := c.RetryPolicies[name]
	if !ok {
		return retrypolicy.Policy{}, &ValidationError{
			Component: "retry_policy", ID: name, Err: ErrRetryPolicyNotFound,
		}
	}
	return policy, nil
}

// SchedulerConfig derives the Work Scheduler's worker-pool tuning from
// the environment config; durations not exposed as env vars keep the
// scheduler package's own production defaults via WithDefaults().
func (c *Config) SchedulerConfig() scheduler.Config {
	return scheduler.Config{WorkerCount: c.Env.WorkerCount}.WithDefaults()
}

// PipelineConfig derives the Chapter Pipeline's collaborator options
// from the environment config's per-component minima.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		ChunkStrategy: chunk.StrategySemantic,
		ChunkOptions: chunk.Options{
			MaxSize: c.Env.ChunkMaxSize,
			Overlap: c.Env.ChunkOverlap,
		},
		SceneOptions: scene.Options{
			MinVisualScore: c.Env.MinVisualScore,
			MinImpactScore: c.Env.MinImpactScore,
			MaxScenes:      c.Env.MaxScenesPerChunk,
		},
		ResolverOptions: resolver.Options{
			SimilarityThreshold: c.Env.SimilarityThreshold,
			MinConfidence:       c.Env.MinResolverConfidence,
			MaxAlternatives:     c.Env.MaxAlternatives,
		},
		PromptOptions: promptcompose.Options{
			MaxPromptLength: c.Env.MaxPromptLength,
		},
	}
}
