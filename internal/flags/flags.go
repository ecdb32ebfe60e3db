// Package flags provides feature flags read from the `flags` config section.
// Flags are read-only after initialization; unknown flags are disabled.
package flags

import (
	"maps"

	"github.com/zjrosen/offview/internal/log"
)

const (
	// FlagFenceStaleResults drops fetch results that belong to a superseded
	// request of the same kind. Disabling it restores last-writer-wins.
	FlagFenceStaleResults = "fence-stale-results"

	// FlagConfigReload re-applies theme and UI settings when the config file changes.
	FlagConfigReload = "config-reload"
)

// Defaults returns the built-in value of every known flag.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagFenceStaleResults: true,
		FlagConfigReload:      true,
	}
}

// Registry holds feature flag state.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from the built-in defaults overlaid with overrides.
func New(overrides map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, overrides)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on.
// Unknown flags and a nil registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
