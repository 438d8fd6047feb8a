package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/novelenchant/enchant/pkg/models"
	"gopkg.in/yaml.v3"
)

// RetryPolicyOverride is the YAML shape for a partial retry-policy
// override; zero fields keep the built-in value (see mergeRetryPolicies).
type RetryPolicyOverride struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	BaseDelay   time.Duration `yaml:"base_delay,omitempty"`
	Factor      float64       `yaml:"factor,omitempty"`
}

// stylesYAML is the shape of styles.yaml: a map of preset name to preset.
type stylesYAML struct {
	StylePresets map[string]models.StylePreset `yaml:"style_presets"`
}

// retryPoliciesYAML is the shape of retry-policies.yaml.
type retryPoliciesYAML struct {
	RetryPolicies map[string]RetryPolicyOverride `yaml:"retry_policies"`
}

// LoadEnv parses EnvConfig from the process environment. Callers that
// want .env file support should load it (e.g. via godotenv.Load) before
// calling LoadEnv.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}

// Initialize loads environment primitives, overlays any user-supplied
// styles.yaml/retry-policies.yaml found in configDir on top of the
// built-in defaults, validates the result, and returns a ready-to-use
// Config. configDir may be empty, in which case only built-ins are used.
func Initialize(configDir string) (*Config, error) {
	envCfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	builtin := GetBuiltinConfig()

	userStyles, err := loadStylesYAML(configDir)
	if err != nil {
		return nil, err
	}
	userPolicies, err := loadRetryPoliciesYAML(configDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		configDir:     configDir,
		Env:           envCfg,
		StylePresets:  mergeStylePresets(builtin.StylePresets, userStyles),
		RetryPolicies: mergeRetryPolicies(builtin.RetryPolicies, userPolicies),
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	return cfg, nil
}

func loadStylesYAML(configDir string) (map[string]models.StylePreset, error) {
	var parsed stylesYAML
	parsed.StylePresets = make(map[string]models.StylePreset)
	if err := loadYAML(configDir, "styles.yaml", &parsed); err != nil {
		return nil, err
	}
	return parsed.StylePresets, nil
}

func loadRetryPoliciesYAML(configDir string) (map[string]RetryPolicyOverride, error) {
	var parsed retryPoliciesYAML
	parsed.RetryPolicies = make(map[string]RetryPolicyOverride)
	if err := loadYAML(configDir, "retry-policies.yaml", &parsed); err != nil {
		return nil, err
	}
	return parsed.RetryPolicies, nil
}

// loadYAML reads filename from configDir and unmarshals it into target,
// after expanding ${VAR}-style environment references. A missing
// configDir or a missing file is not an error — it simply means "use
// built-ins only".
func loadYAML(configDir, filename string, target any) error {
	if configDir == "" {
		return nil
	}

	path := filepath.Join(configDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NewLoadError(path, err)
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}
	return nil
}
