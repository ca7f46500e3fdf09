package core

import "fmt"

// Plugin is a unit of emission driven by the event bus (spec.md §4.H,
// GLOSSARY). Dependencies names other plugins whose identifiers this
// plugin may reference — the orchestrator guarantees every dependency is
// instantiated (and has therefore subscribed) before this plugin.
type Plugin interface {
	Name() string
	Dependencies() []string
	// Handler runs once per pipeline run. It is expected to Subscribe to
	// bus events via ctx; it must not block on I/O beyond what a single
	// cooperative slice allows (spec.md §5).
	Handler(ctx *Context) error
}

// PluginRegistry holds the plugins configured for a run (spec.md §4.J "the
// plugin registry").
type PluginRegistry struct {
	byName map[string]Plugin
	order  []string
}

// NewPluginRegistry returns an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{byName: make(map[string]Plugin)}
}

// Register adds p to the registry. Registering two plugins under the same
// name is a configuration error.
func (r *PluginRegistry) Register(p Plugin) error {
	name := p.Name()
	if name == "" {
		return New(KindConfigError, fmt.Errorf("plugin has empty name"))
	}
	if _, exists := r.byName[name]; exists {
		return New(KindConfigError, fmt.Errorf("plugin %q already registered", name))
	}
	r.byName[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get looks up a plugin by name.
func (r *PluginRegistry) Get(name string) (Plugin, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns every registered plugin name in registration order.
func (r *PluginRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
