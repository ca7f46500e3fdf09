// Package zodemit adapts the Schema Emitter (internal/schemaemit) into a
// core.Plugin so the orchestrator drives it the same way it drives every
// other consumer of the event bus, writing the result to one "schemas"
// file in the File Registry.
package zodemit

import (
	"fmt"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
	"github.com/roberthamel/oascodegen/internal/schemaemit"
)

const pluginName = "zodemit"

const fileID = "schemas"

// Plugin emits one named declaration per schema component plus one named
// request-bundle per operation, in the shape internal/schemaemit produces.
type Plugin struct {
	Case            identifier.Case
	NameTransformer identifier.NameTransformer
	EmitMetadata    bool

	emitter        *schemaemit.Emitter
	operationDecls []string
}

// New returns a zodemit plugin using caseConv for every emitted component
// and operation-bundle identifier.
func New(caseConv identifier.Case, nt identifier.NameTransformer, emitMetadata bool) *Plugin {
	return &Plugin{Case: caseConv, NameTransformer: nt, EmitMetadata: emitMetadata}
}

func (p *Plugin) Name() string           { return pluginName }
func (p *Plugin) Dependencies() []string { return nil }

// Handler creates the schemas file, builds the emitter bound to ctx.IR and
// that file's identifier table, and subscribes to every event the spec
// routes schema and operation declarations through.
func (p *Plugin) Handler(ctx *core.Context) error {
	file := ctx.CreateFile(fileID, "schemas.gen.ts", p.Case, true)
	file.Import("zod", "* as S")
	p.emitter = schemaemit.New(ctx.IR, file.Identifiers, p.Case, p.NameTransformer, p.EmitMetadata)

	ctx.Subscribe(eventbus.Schema, pluginName, func(payload any) error {
		comp, ok := payload.(*ir.Component)
		if !ok || comp.Kind != ir.ComponentSchema {
			return nil
		}
		if _, err := p.emitter.EmitComponent(comp.Ref); err != nil {
			return err
		}
		return nil
	})

	ctx.Subscribe(eventbus.Operation, pluginName, func(payload any) error {
		op, ok := payload.(*ir.Operation)
		if !ok {
			return nil
		}
		body, err := p.emitter.EmitOperationBundle(op)
		if err != nil {
			return err
		}
		id := file.Identifiers.Identifier(identifier.Request{
			Ref:       "#/x-operations/" + op.ID,
			Case:      p.Case,
			Namespace: identifier.NamespaceValue,
			Create:    true,
		})
		p.operationDecls = append(p.operationDecls, fmt.Sprintf("const %s = %s", id.Name, body))
		return nil
	})

	// Components referenced mid-parse (including those only reachable from
	// an operation's inline parameter/body schemas) land in e.Declarations
	// as they are emitted; operation bundles are buffered so every
	// component declaration, named or discovered lazily, precedes the
	// operation consts that reference it in the written file.
	ctx.Subscribe(eventbus.After, pluginName, func(payload any) error {
		for _, decl := range p.emitter.Declarations {
			file.Add(decl)
		}
		for _, decl := range p.operationDecls {
			file.Add(decl)
		}
		return nil
	})

	return nil
}
