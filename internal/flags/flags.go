// Package flags provides feature flag support. Flags are read-only after
// initialization and unknown flags are off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/policywizard/internal/log"
)

const (
	// FlagMouseZones makes accordion rows clickable.
	FlagMouseZones = "mouse-zones"

	// FlagSQLHelpMarkdown renders the SQL help panel through glamour instead
	// of a plain lipgloss list.
	FlagSQLHelpMarkdown = "sql-help-markdown"
)

// Defaults returns the value of every declared flag when config is silent.
func Defaults() map[string]bool {
	return map[string]bool{
		FlagMouseZones:      true,
		FlagSQLHelpMarkdown: false,
	}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from configured values layered over Defaults.
func New(configured map[string]bool) *Registry {
	flags := Defaults()
	maps.Copy(flags, configured)

	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "feature flags initialized", "count", len(flags), "flags", r.Names())
	return r
}

// Enabled reports whether the named flag is on. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Names returns the enabled flag names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	var names []string
	for name, on := range r.flags {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
