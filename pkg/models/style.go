package models

// StylePreset is a named bundle of base prompt modifiers, negative
// modifiers, and technical parameter overrides, configured ahead of time
// and selected per Work.
type StylePreset struct {
	Name             string          `yaml:"name" json:"name"`
	BasePrompt       string          `yaml:"base_prompt" json:"base_prompt"`
	NegativeExtension string         `yaml:"negative_extension,omitempty" json:"negative_extension,omitempty"`
	Technical        TechnicalParams `yaml:"technical,omitempty" json:"technical,omitempty"`
}
