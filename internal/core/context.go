package core

import (
	"errors"

	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/fileregistry"
	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
	"github.com/roberthamel/oascodegen/internal/refresolve"
)

// Config is the subset of recognized configuration (spec.md §6) every
// plugin may read. The CLI's internal/config package resolves the full
// layered configuration and narrows it to this shape before building a
// Context.
type Config struct {
	OutputPath      string
	OutputIndexFile bool
	EnumsEnabled    bool
	EnumsMode       string // "inline" | "lift"
	ReadWriteSplit  bool
	PluginOptions   map[string]map[string]any // per-plugin options, keyed by plugin name
}

// Context is the owned root value shared by every plugin invocation (the
// Go stand-in for a borrowed mutable handle, spec.md §4.J, §9). It exposes
// the Ref Resolver (A), Identifier Service (B, one table per file via the
// File Registry), File Registry (C), IR Model (D), and Event Bus (G) to
// plugins, plus the raw Spec document for dialect parsers that still need
// it mid-parse.
type Context struct {
	Config *Config
	IR     *ir.Model
	Spec   any // raw deserialized document, immutable after load

	Bus   *eventbus.Bus
	Files *fileregistry.Registry

	registry *PluginRegistry
}

// NewContext wires a fresh Context around an IR model and raw spec
// document.
func NewContext(cfg *Config, model *ir.Model, spec any) *Context {
	return &Context{
		Config:   cfg,
		IR:       model,
		Spec:     spec,
		Bus:      eventbus.New(),
		Files:    fileregistry.New(cfg.OutputPath),
		registry: NewPluginRegistry(),
	}
}

// ResolveRef resolves a $ref against the raw Spec document (spec.md §4.A).
func (c *Context) ResolveRef(ref string) (any, error) {
	return refresolve.Resolve(ref, c.Spec)
}

// ResolveIrRef looks up a $ref directly in the IR's component table —
// trivial once the dialect parser has populated ir.Model.Components, but
// exposed here so plugins never need to know the IR's internal shape.
func (c *Context) ResolveIrRef(ref string) (*ir.Component, bool) {
	comp, ok := c.IR.Components[ref]
	return comp, ok
}

// Dereference shallow-merges the schema ref points to into a copy of
// holder, stripping the $ref so the result reads as an inline schema
// (spec.md §4.J). The holder's Description and AccessScope, when set, take
// precedence over the referent's; every other field comes from the
// referent.
func (c *Context) Dereference(holder *ir.Schema) (*ir.Schema, error) {
	if holder == nil || holder.Kind != ir.KindRef {
		return holder, nil
	}
	comp, ok := c.ResolveIrRef(holder.Ref)
	if !ok || comp.Schema == nil {
		return nil, &Error{Kind: KindRefNotFound, Cause: refNotFoundErr(holder.Ref)}
	}
	merged := *comp.Schema
	merged.Description = firstNonEmpty(holder.Description, comp.Schema.Description)
	merged.AccessScope = firstNonEmptyScope(holder.AccessScope, comp.Schema.AccessScope)
	return &merged, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonEmptyScope(a, b ir.AccessScope) ir.AccessScope {
	if a != ir.AccessUndefined {
		return a
	}
	return b
}

type refNotFound struct{ ref string }

func (e refNotFound) Error() string { return "ref not found: " + e.ref }
func refNotFoundErr(ref string) error { return refNotFound{ref: ref} }

// CreateFile proxies to the File Registry.
func (c *Context) CreateFile(id, relPath string, identCase identifier.Case, exportFromIndex bool) *fileregistry.File {
	return c.Files.CreateFile(id, relPath, identCase, exportFromIndex)
}

// File proxies to the File Registry.
func (c *Context) File(id string) *fileregistry.File {
	return c.Files.File(id)
}

// Subscribe proxies to the Event Bus, recording pluginName for error
// reporting.
func (c *Context) Subscribe(event eventbus.Event, pluginName string, handler eventbus.Handler) {
	c.Bus.Subscribe(event, pluginName, handler)
}

// Broadcast proxies to the Event Bus, converting any *eventbus.BroadcastError
// into a Kind-tagged *Error carrying the same plugin/event context, so the
// external CLI's exit-code mapping (spec.md §7) can recognize it.
func (c *Context) Broadcast(event eventbus.Event, payload any) error {
	err := c.Bus.Broadcast(event, payload)
	if err == nil {
		return nil
	}
	var be *eventbus.BroadcastError
	if errors.As(err, &be) {
		return New(KindBroadcastError, be.Cause).WithPlugin(be.PluginName).WithEvent(string(be.EventName))
	}
	return New(KindBroadcastError, err)
}

// Registry exposes the plugin registry (spec.md §4.J "the plugin
// registry").
func (c *Context) Registry() *PluginRegistry {
	return c.registry
}
