package plugin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PluginConfig is the per-plugin configuration parsed from the plugin's YAML
// file in the plugin directory. A plugin with Enabled false is never
// instantiated.
type PluginConfig struct {
	// Enabled gates instantiation. Absent in YAML means enabled.
	Enabled bool `yaml:"enabled"`

	// Priority orders plugins within a hook bucket; higher runs earlier.
	// Plugins with equal priority keep their load order.
	Priority int `yaml:"priority"`

	// Options carries free-form plugin-defined settings.
	Options map[string]any `yaml:"options"`
}

// DefaultPluginConfig returns the configuration synthesized for plugins that
// have no YAML file of their own.
func DefaultPluginConfig() PluginConfig {
	return PluginConfig{Enabled: true, Options: map[string]any{}}
}

// LoadPluginConfig reads and parses a per-plugin YAML file. Missing keys keep
// their defaults, so a file that only sets options still loads enabled.
func LoadPluginConfig(path string) (PluginConfig, error) {
	cfg := DefaultPluginConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the scanned plugin dir
	if err != nil {
		return cfg, fmt.Errorf("failed to read plugin config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse plugin config: %w", err)
	}
	if cfg.Options == nil {
		cfg.Options = map[string]any{}
	}
	return cfg, nil
}

// Option returns a raw option value.
func (c PluginConfig) Option(key string) (any, bool) {
	v, ok := c.Options[key]
	return v, ok
}

// StringOption returns a string option, or fallback when absent or of another
// type.
func (c PluginConfig) StringOption(key, fallback string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return fallback
}

// BoolOption returns a boolean option, or fallback when absent or of another
// type.
func (c PluginConfig) BoolOption(key string, fallback bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return fallback
}

// IntOption returns an integer option, or fallback when absent or of another
// type.
func (c PluginConfig) IntOption(key string, fallback int) int {
	if v, ok := c.Options[key].(int); ok {
		return v
	}
	return fallback
}
