package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_GetStylePreset(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Initialize("")
	require.NoError(t, err)

	preset, err := cfg.GetStylePreset("watercolor")
	require.NoError(t, err)
	assert.Equal(t, "watercolor", preset.Name)

	_, err = cfg.GetStylePreset("does-not-exist")
	assert.ErrorIs(t, err, ErrStylePresetNotFound)
}

func TestConfig_GetRetryPolicy(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Initialize("")
	require.NoError(t, err)

	policy, err := cfg.GetRetryPolicy("image")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, policy.MaxAttempts, 1)

	_, err = cfg.GetRetryPolicy("unknown")
	assert.ErrorIs(t, err, ErrRetryPolicyNotFound)
}

func TestConfig_SchedulerConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WORKER_COUNT", "7")
	cfg, err := Initialize("")
	require.NoError(t, err)

	sc := cfg.SchedulerConfig()
	assert.Equal(t, 7, sc.WorkerCount)
	assert.Greater(t, sc.PollInterval, time.Duration(0), "WithDefaults should have filled in a poll interval")
}

func TestConfig_PipelineConfig(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Initialize("")
	require.NoError(t, err)

	pc := cfg.PipelineConfig()
	assert.Equal(t, cfg.Env.MinVisualScore, pc.SceneOptions.MinVisualScore)
	assert.Equal(t, cfg.Env.SimilarityThreshold, pc.ResolverOptions.SimilarityThreshold)
	assert.Equal(t, cfg.Env.ChunkMaxSize, pc.ChunkOptions.MaxSize)
}
