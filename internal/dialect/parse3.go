package dialect

import (
	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/ir"
)

// ParseOAS3 implements spec.md §4.E for both 3.0.x and 3.1.x: the two
// dialects share one document shape (`components`, `paths`, `servers`);
// the only semantic difference the core cares about — the nullable
// convention — is already normalized inside ConvertSchema, so one walk
// serves both. oas30.Parse and oas31.Parse are thin wrappers around this;
// the version sniff happens before either is called.
func ParseOAS3(ctx *core.Context, filter Filter) error {
	doc, ok := AsMap(ctx.Spec)
	if !ok {
		return core.New(core.KindSpecError, errNotAnObject)
	}

	if err := parseComponents(ctx, doc, filter); err != nil {
		return err
	}
	if err := parsePaths(ctx, doc, filter); err != nil {
		return err
	}
	return parseServers(ctx, doc)
}

func parseComponents(ctx *core.Context, doc Doc, filter Filter) error {
	comps, ok := AsMap(doc["components"])
	if !ok {
		return nil
	}

	if err := parseComponentGroup(ctx, comps, "schemas", ir.ComponentSchema, filter); err != nil {
		return err
	}
	if err := parseComponentGroup(ctx, comps, "parameters", ir.ComponentParameter, filter); err != nil {
		return err
	}
	if err := parseComponentGroup(ctx, comps, "requestBodies", ir.ComponentRequestBody, filter); err != nil {
		return err
	}
	return parseSecuritySchemes(ctx, comps, filter)
}

func parseComponentGroup(ctx *core.Context, comps Doc, key string, kind ir.ComponentKind, filter Filter) error {
	group, ok := AsMap(comps[key])
	if !ok {
		return nil
	}
	for _, name := range SortedKeys(group) {
		ref := "#/components/" + key + "/" + name
		if !filter.Accepts(ref) {
			continue
		}
		node, ok := AsMap(group[name])
		if !ok {
			continue
		}

		comp := &ir.Component{Ref: ref, Kind: kind}
		var event eventbus.Event
		switch kind {
		case ir.ComponentSchema:
			comp.Schema = ConvertSchema(node)
			if comp.Schema.Kind == ir.KindUnknown {
				ctx.IR.AddWarning(ir.Warning{Ref: ref, Message: "schema could not be normalized, emitting unknown"})
			}
			event = eventbus.Schema
		case ir.ComponentParameter:
			comp.Parameter = ConvertParameter(node)
			event = eventbus.Parameter
		case ir.ComponentRequestBody:
			comp.RequestBody = ConvertRequestBody(node)
			event = eventbus.RequestBody
		}

		ctx.IR.AddComponent(ref, comp)
		if err := ctx.Broadcast(event, comp); err != nil {
			return err
		}
	}
	return nil
}

func parseSecuritySchemes(ctx *core.Context, comps Doc, filter Filter) error {
	group, ok := AsMap(comps["securitySchemes"])
	if !ok {
		return nil
	}
	for _, name := range SortedKeys(group) {
		ref := "#/components/securitySchemes/" + name
		if !filter.Accepts(ref) {
			continue
		}
		node, ok := AsMap(group[name])
		if !ok {
			continue
		}
		ss := &ir.SecurityScheme{ID: name}
		ss.Type, _ = node["type"].(string)
		ss.Name, _ = node["name"].(string)
		ss.In, _ = node["in"].(string)
		ss.Scheme, _ = node["scheme"].(string)
		ss.Description, _ = node["description"].(string)
		ctx.IR.AddComponent(ref, &ir.Component{Ref: ref, Kind: ir.ComponentSecurityScheme, SecurityScheme: ss})
		// Security schemes have no dedicated event (spec.md §4.E step 1).
	}
	return nil
}

func parsePaths(ctx *core.Context, doc Doc, filter Filter) error {
	paths, ok := AsMap(doc["paths"])
	if !ok {
		return nil
	}
	idState := NewOperationIDState()

	for _, path := range SortedKeys(paths) {
		pathRef := "#/paths/" + path
		if !filter.Accepts(pathRef) {
			continue
		}
		pathItemNode, ok := AsMap(paths[path])
		if !ok {
			continue
		}

		// Merge a $ref'd path item with its inline overlay: inline fields
		// override referenced fields (spec.md §4.E step 2).
		merged := pathItemNode
		if ref, ok := pathItemNode["$ref"].(string); ok {
			if resolved, err := ctx.ResolveRef(ref); err == nil {
				if base, ok := AsMap(resolved); ok {
					merged = overlay(base, pathItemNode)
				}
			}
		}

		pi := ctx.IR.AddPath(path)
		pathLevelParams, _ := AsSlice(merged["parameters"])

		for _, method := range HTTPMethods() {
			opNode, ok := AsMap(merged[method])
			if !ok {
				continue
			}
			methodRef := pathRef + "/" + method
			if !filter.Accepts(methodRef) {
				continue
			}

			declaredID, _ := opNode["operationId"].(string)
			id := idState.ResolveOperationID(declaredID, method, path)
			op := ir.NewOperation(id, method, path)
			op.Description, _ = opNode["description"].(string)
			op.Summary, _ = opNode["summary"].(string)

			methodParams, _ := AsSlice(opNode["parameters"])
			MergeParameters(op, pathLevelParams, methodParams)

			if rb, ok := AsMap(opNode["requestBody"]); ok {
				op.Body = ConvertRequestBody(rb)
			}
			if responses, ok := AsMap(opNode["responses"]); ok {
				ConvertResponses(op, responses)
			}
			if security, ok := AsSlice(opNode["security"]); ok {
				op.Security = ConvertSecurity(security)
			}

			pi.SetOperation(method, op)
			if err := ctx.Broadcast(eventbus.Operation, op); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseServers(ctx *core.Context, doc Doc) error {
	servers, ok := AsSlice(doc["servers"])
	if !ok {
		return nil
	}
	for _, raw := range servers {
		node, ok := AsMap(raw)
		if !ok {
			continue
		}
		s := ir.Server{}
		s.URL, _ = node["url"].(string)
		s.Description, _ = node["description"].(string)
		ctx.IR.Servers = append(ctx.IR.Servers, s)
		if err := ctx.Broadcast(eventbus.Server, s); err != nil {
			return err
		}
	}
	return nil
}

// overlay returns a shallow copy of base with every key present in top
// replaced by top's value (inline-overlay-wins merge).
func overlay(base, top Doc) Doc {
	merged := make(Doc, len(base)+len(top))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range top {
		if k == "$ref" {
			continue
		}
		merged[k] = v
	}
	return merged
}

type specShapeError string

func (e specShapeError) Error() string { return string(e) }

const errNotAnObject = specShapeError("spec root is not an object")
