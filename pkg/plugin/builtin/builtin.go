// Package builtin holds the plugins compiled into the host. They implement
// the same contract as natively loaded modules and go through the identical
// config, load, and dispatch path; the manager cannot tell them apart.
package builtin

import "github.com/siteporter/siteporter/pkg/plugin"

// Builtins returns the factory table the host seeds into the plugin manager.
// Names here are host-reserved: they resolve before any artifact in the
// plugin directory.
func Builtins() map[string]plugin.Factory {
	return map[string]plugin.Factory{
		"seo":  func() plugin.Plugin { return NewSEOPlugin() },
		"feed": func() plugin.Plugin { return NewFeedPlugin() },
	}
}
