// Package transform implements the two independent, idempotent IR
// rewrites of spec.md §4.F: enum lifting and read/write schema splitting.
// Transforms may add components but never remove a referenced one, and
// never mutate the raw Spec document.
package transform

import (
	"fmt"
	"strings"

	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
)

// EnumMode selects how the enum transform treats a schema's enum keyword.
type EnumMode string

const (
	EnumInline EnumMode = "inline"
	EnumLift   EnumMode = "lift"
)

// LiftEnums walks every component schema and, when mode is EnumLift,
// replaces each inline enum with a $ref to a synthesized component,
// registering the new component's name through table. Running this twice
// is a no-op the second time: a schema already rewritten to KindRef is
// never itself an enum, so it is skipped on re-entry (spec.md §8.7).
func LiftEnums(model *ir.Model, table *identifier.Table, mode EnumMode) error {
	if mode != EnumLift {
		return nil
	}
	for _, ref := range append([]string(nil), model.ComponentOrder...) {
		comp := model.Components[ref]
		if comp.Kind != ir.ComponentSchema || comp.Schema == nil {
			continue
		}
		if err := liftEnumsInSchema(model, table, ref, comp.Schema); err != nil {
			return err
		}
	}
	return nil
}

// liftEnumsInSchema mutates parent in place, replacing any direct
// KindEnum field or object property that is itself KindEnum with a
// KindRef pointing at a freshly synthesized component. It recurses into
// object properties and array items so nested enums are lifted too.
func liftEnumsInSchema(model *ir.Model, table *identifier.Table, parentRef string, s *ir.Schema) error {
	switch s.Kind {
	case ir.KindObject:
		for _, name := range s.PropertyOrder {
			prop := s.Properties[name]
			if prop.Kind == ir.KindEnum {
				newRef, err := synthesizeEnumComponent(model, table, parentRef, name, prop)
				if err != nil {
					return err
				}
				s.Properties[name] = &ir.Schema{Kind: ir.KindRef, Ref: newRef, AccessScope: prop.AccessScope}
				continue
			}
			if err := liftEnumsInSchema(model, table, parentRef, prop); err != nil {
				return err
			}
		}
	case ir.KindArray, ir.KindTuple, ir.KindComposite:
		for i, item := range s.Items {
			if item.Kind == ir.KindEnum {
				newRef, err := synthesizeEnumComponent(model, table, parentRef, fmt.Sprintf("item%d", i), item)
				if err != nil {
					return err
				}
				s.Items[i] = &ir.Schema{Kind: ir.KindRef, Ref: newRef, AccessScope: item.AccessScope}
				continue
			}
			if err := liftEnumsInSchema(model, table, parentRef, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func synthesizeEnumComponent(model *ir.Model, table *identifier.Table, parentRef, propName string, enumSchema *ir.Schema) (string, error) {
	newRef := parentRef + "/" + propName
	model.AddComponent(newRef, &ir.Component{Ref: newRef, Kind: ir.ComponentSchema, Schema: enumSchema})
	table.Identifier(identifier.Request{
		Ref:       newRef,
		Case:      identifier.CasePascal,
		Namespace: identifier.NamespaceType,
		Create:    true,
	})
	return newRef, nil
}

// SplitReadWrite synthesizes "<Name>Readable" and "<Name>Writable"
// component variants for every object component schema that has at least
// one property with a non-undefined AccessScope, dropping the properties
// irrelevant to each direction. It is idempotent: a parent whose variants
// already exist is not split again, and a synthesized variant (recognized
// by its sibling variant being present) is never split itself.
func SplitReadWrite(model *ir.Model, enabled bool) error {
	if !enabled {
		return nil
	}
	for _, ref := range append([]string(nil), model.ComponentOrder...) {
		comp := model.Components[ref]
		if comp.Kind != ir.ComponentSchema || comp.Schema == nil || comp.Schema.Kind != ir.KindObject {
			continue
		}
		if !hasScopedProperty(comp.Schema) {
			continue
		}
		if base := strings.TrimSuffix(ref, "Readable"); base != ref && model.Components[base+"Writable"] != nil {
			continue
		}
		if base := strings.TrimSuffix(ref, "Writable"); base != ref && model.Components[base+"Readable"] != nil {
			continue
		}
		readable := filterByScope(comp.Schema, ir.AccessWrite)
		writable := filterByScope(comp.Schema, ir.AccessRead)

		readRef := ref + "Readable"
		writeRef := ref + "Writable"
		if _, exists := model.Components[readRef]; !exists {
			model.AddComponent(readRef, &ir.Component{Ref: readRef, Kind: ir.ComponentSchema, Schema: readable})
		}
		if _, exists := model.Components[writeRef]; !exists {
			model.AddComponent(writeRef, &ir.Component{Ref: writeRef, Kind: ir.ComponentSchema, Schema: writable})
		}
	}
	return nil
}

func hasScopedProperty(s *ir.Schema) bool {
	for _, name := range s.PropertyOrder {
		if s.Properties[name].AccessScope != ir.AccessUndefined {
			return true
		}
	}
	return false
}

// filterByScope returns a shallow copy of s with every property whose
// AccessScope equals exclude removed. A property with AccessUndefined is
// kept in both variants.
func filterByScope(s *ir.Schema, exclude ir.AccessScope) *ir.Schema {
	out := &ir.Schema{
		Kind:                 s.Kind,
		Description:          s.Description,
		Default:              s.Default,
		AccessScope:          s.AccessScope,
		Required:             s.Required,
		AdditionalProperties: s.AdditionalProperties,
		Properties:           make(map[string]*ir.Schema),
	}
	for _, name := range s.PropertyOrder {
		prop := s.Properties[name]
		if prop.AccessScope == exclude {
			continue
		}
		out.SetProperty(name, prop)
	}
	return out
}

// Direction names which variant a request body or response should
// reference after a read/write split (spec.md §4.F "rewrite downstream
// references based on the containing operation's direction").
type Direction string

const (
	DirectionWrite Direction = "write" // request body
	DirectionRead  Direction = "read"  // response
)

// RewriteRef returns the ref a request body (DirectionWrite) or response
// (DirectionRead) should point at after SplitReadWrite has run, or ref
// unchanged if no split variant exists for it.
func RewriteRef(model *ir.Model, ref string, dir Direction) string {
	suffix := "Readable"
	if dir == DirectionWrite {
		suffix = "Writable"
	}
	candidate := ref + suffix
	if _, ok := model.Components[candidate]; ok {
		return candidate
	}
	return ref
}

// RewriteOperationRefs applies RewriteRef across every operation's request
// body (DirectionWrite) and response (DirectionRead) content schemas,
// redirecting any top-level $ref to its split variant where one exists.
// Called once, after SplitReadWrite, so request/response schemas actually
// resolve to the narrowed component SplitReadWrite synthesized instead of
// the unsplit parent (spec.md §4.F "rewrite downstream references based on
// the containing operation's direction").
func RewriteOperationRefs(model *ir.Model) {
	for _, path := range model.PathOrder {
		pi := model.Paths[path]
		for _, method := range pi.MethodOrder {
			op := pi.Operations[method]
			if op.Body != nil {
				for i := range op.Body.Content {
					rewriteContentRef(model, &op.Body.Content[i], DirectionWrite)
				}
			}
			for _, code := range op.ResponseOrder {
				resp := op.Responses[code]
				for i := range resp.Content {
					rewriteContentRef(model, &resp.Content[i], DirectionRead)
				}
			}
		}
	}
}

func rewriteContentRef(model *ir.Model, mt *ir.MediaTypeContent, dir Direction) {
	if mt.Schema == nil || mt.Schema.Kind != ir.KindRef {
		return
	}
	mt.Schema.Ref = RewriteRef(model, mt.Schema.Ref, dir)
}
