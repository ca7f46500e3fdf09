// Package orchestrator resolves plugin dependencies, topologically orders
// them, instantiates them, and drives their consumption of the IR through
// the event bus (spec.md §4.H).
package orchestrator

import (
	"fmt"
	"sort"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/ir"
)

// Resolve computes a pluginOrder satisfying "for every plugin P and every
// D in P.Dependencies, D precedes P" (spec.md §4.H). Plugins with no
// dependency relationship are ordered by registration order to keep the
// result deterministic across runs with the same registration sequence.
// A missing dependency is a fatal *core.Error{Kind: ConfigError}.
func Resolve(registry *core.PluginRegistry) ([]string, error) {
	names := registry.Names()
	indexOf := make(map[string]int, len(names))
	for i, n := range names {
		indexOf[n] = i
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(names))
	var order []string

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return core.New(core.KindConfigError, fmt.Errorf("plugin dependency cycle: %v -> %s", chain, name))
		}
		color[name] = gray

		p, ok := registry.Get(name)
		if !ok {
			return core.New(core.KindConfigError, fmt.Errorf("unknown plugin %q", name))
		}

		deps := append([]string(nil), p.Dependencies()...)
		sort.Slice(deps, func(i, j int) bool { return indexOf[deps[i]] < indexOf[deps[j]] })
		for _, dep := range deps {
			if _, ok := registry.Get(dep); !ok {
				return core.New(core.KindConfigError, fmt.Errorf("plugin %q depends on unregistered plugin %q", name, dep))
			}
			if err := visit(dep, append(chain, name)); err != nil {
				return err
			}
		}

		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Run executes the full algorithm of spec.md §4.H:
//  1. instantiate every plugin in pluginOrder (each Handler call subscribes
//     to bus events);
//  2. broadcast "before";
//  3. for each component, broadcast its matching event, in component-kind
//     order (parameters, requestBodies, schemas; security schemes are not
//     broadcast) then within a kind in ComponentOrder; then for each
//     operation in path then method order, broadcast "operation";
//  4. broadcast "server" for each server;
//  5. broadcast "after".
//
// Any broadcast error returned during steps 2-5 halts the pipeline
// immediately: no later event is broadcast (spec.md §7, §8.8).
func Run(ctx *core.Context, registry *core.PluginRegistry, pluginOrder []string) error {
	for _, name := range pluginOrder {
		p, ok := registry.Get(name)
		if !ok {
			return core.New(core.KindConfigError, fmt.Errorf("pluginOrder references unknown plugin %q", name))
		}
		if err := p.Handler(ctx); err != nil {
			return core.New(core.KindConfigError, fmt.Errorf("instantiating plugin %q: %w", name, err))
		}
	}

	if err := ctx.Broadcast(eventbus.Before, nil); err != nil {
		return err
	}

	// Security schemes have no dedicated parse/event step (spec.md §4.C
	// step 1 names parseParameter | parseRequestBody | parseSchema only):
	// they populate ctx.IR.Components for lookup but never broadcast.
	for _, kind := range []ir.ComponentKind{
		ir.ComponentParameter,
		ir.ComponentRequestBody,
		ir.ComponentSchema,
	} {
		if err := broadcastComponentsOfKind(ctx, kind); err != nil {
			return err
		}
	}

	for _, path := range ctx.IR.PathOrder {
		pi := ctx.IR.Paths[path]
		for _, method := range pi.MethodOrder {
			op := pi.Operations[method]
			if err := ctx.Broadcast(eventbus.Operation, op); err != nil {
				return err
			}
		}
	}

	for _, srv := range ctx.IR.Servers {
		if err := ctx.Broadcast(eventbus.Server, srv); err != nil {
			return err
		}
	}

	return ctx.Broadcast(eventbus.After, nil)
}

func broadcastComponentsOfKind(ctx *core.Context, kind ir.ComponentKind) error {
	event := eventForComponentKind(kind)
	for _, ref := range ctx.IR.ComponentOrder {
		comp := ctx.IR.Components[ref]
		if comp.Kind != kind {
			continue
		}
		if err := ctx.Broadcast(event, comp); err != nil {
			return err
		}
	}
	return nil
}

func eventForComponentKind(kind ir.ComponentKind) eventbus.Event {
	switch kind {
	case ir.ComponentParameter:
		return eventbus.Parameter
	case ir.ComponentRequestBody:
		return eventbus.RequestBody
	default:
		return eventbus.Schema
	}
}
