// Package plugin provides the extension runtime for siteporter. Plugins
// subscribe to named lifecycle hooks, observe and mutate shared build state,
// and can halt or fail a stage. Built-in plugins and natively loaded modules
// go through the same registration and dispatch path.
package plugin

import "fmt"

// Plugin is the contract every extension implements, whether compiled into
// the host or loaded from a native module.
type Plugin interface {
	// Metadata returns the plugin's identity. It must be pure and return the
	// same values on every call; Name is the registry key.
	Metadata() PluginMetadata

	// Initialize is called exactly once, before registration, with the
	// plugin's configuration. An error blocks registration and the instance
	// is discarded.
	Initialize(cfg PluginConfig) error

	// Hooks returns the hooks the plugin subscribes to. It is called exactly
	// once, after Initialize, and the result is captured by the manager;
	// later changes have no effect until a reload.
	Hooks() []Hook

	// HandleHook is invoked for every dispatch of a subscribed hook. It must
	// be safe for concurrent invocation from multiple goroutines; within one
	// dispatch invocation is strictly sequential.
	HandleHook(hctx *HookContext, h Hook) HookResult

	// Cleanup is called when the plugin is unloaded. Use this to release
	// resources; errors are logged, not fatal.
	Cleanup() error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "seo", "feed").
	Name string

	// Version is the semantic version (e.g., "1.0.0").
	Version string

	// Author is the plugin creator or maintainer.
	Author string

	// Description provides a human-readable summary of the plugin's purpose.
	Description string

	// Homepage is an optional project URL.
	Homepage string

	// License is an optional SPDX identifier.
	License string

	// MinVersion optionally names the oldest host version the plugin
	// supports.
	MinVersion string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// BasePlugin provides default implementations for the optional plugin
// methods. Plugins embed this and override what they need; the default
// handler continues without touching the build.
type BasePlugin struct{}

// Initialize is a no-op default implementation.
func (b *BasePlugin) Initialize(cfg PluginConfig) error {
	return nil
}

// Hooks subscribes to nothing by default.
func (b *BasePlugin) Hooks() []Hook {
	return nil
}

// HandleHook continues without side effects.
func (b *BasePlugin) HandleHook(hctx *HookContext, h Hook) HookResult {
	return Continue()
}

// Cleanup is a no-op default implementation.
func (b *BasePlugin) Cleanup() error {
	return nil
}
