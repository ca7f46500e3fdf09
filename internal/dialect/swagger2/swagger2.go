// Package swagger2 parses legacy Swagger 2.0 documents into the core IR,
// unifying its `definitions`/`securityDefinitions`/`basePath` vocabulary
// with the 3.x shape the IR and downstream plugins assume (spec.md's
// Supplemented Features).
package swagger2

import (
	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/dialect"
	"github.com/roberthamel/oascodegen/internal/eventbus"
	"github.com/roberthamel/oascodegen/internal/ir"
)

// Parse walks a Swagger 2.0 document (ctx.Spec) and populates ctx.IR.
func Parse(ctx *core.Context, filter dialect.Filter) error {
	doc, ok := dialect.AsMap(ctx.Spec)
	if !ok {
		return core.New(core.KindSpecError, errNotAnObject("spec root is not an object"))
	}

	if err := parseDefinitions(ctx, doc, filter); err != nil {
		return err
	}
	if err := parseParameters(ctx, doc, filter); err != nil {
		return err
	}
	if err := parseSecurityDefinitions(ctx, doc, filter); err != nil {
		return err
	}
	if err := parsePaths(ctx, doc, filter); err != nil {
		return err
	}
	return parseServer(ctx, doc)
}

func parseDefinitions(ctx *core.Context, doc dialect.Doc, filter dialect.Filter) error {
	defs, ok := dialect.AsMap(doc["definitions"])
	if !ok {
		return nil
	}
	for _, name := range dialect.SortedKeys(defs) {
		ref := "#/definitions/" + name
		if !filter.Accepts(ref) {
			continue
		}
		node, ok := dialect.AsMap(defs[name])
		if !ok {
			continue
		}
		comp := &ir.Component{Ref: ref, Kind: ir.ComponentSchema, Schema: dialect.ConvertSchema(node)}
		if comp.Schema.Kind == ir.KindUnknown {
			ctx.IR.AddWarning(ir.Warning{Ref: ref, Message: "schema could not be normalized, emitting unknown"})
		}
		ctx.IR.AddComponent(ref, comp)
		if err := ctx.Broadcast(eventbus.Schema, comp); err != nil {
			return err
		}
	}
	return nil
}

// parseParameters handles the top-level `parameters` component map.
// Swagger 2.0's `in: body` parameters have no 3.x equivalent location —
// they are themselves request bodies — so they are skipped here and
// instead surfaced per-operation in parsePaths via bodyParamAsRequestBody.
func parseParameters(ctx *core.Context, doc dialect.Doc, filter dialect.Filter) error {
	params, ok := dialect.AsMap(doc["parameters"])
	if !ok {
		return nil
	}
	for _, name := range dialect.SortedKeys(params) {
		ref := "#/parameters/" + name
		if !filter.Accepts(ref) {
			continue
		}
		node, ok := dialect.AsMap(params[name])
		if !ok {
			continue
		}
		if in, _ := node["in"].(string); in == "body" || in == "formData" {
			continue
		}
		comp := &ir.Component{Ref: ref, Kind: ir.ComponentParameter, Parameter: dialect.ConvertParameter(node)}
		ctx.IR.AddComponent(ref, comp)
		if err := ctx.Broadcast(eventbus.Parameter, comp); err != nil {
			return err
		}
	}
	return nil
}

func parseSecurityDefinitions(ctx *core.Context, doc dialect.Doc, filter dialect.Filter) error {
	defs, ok := dialect.AsMap(doc["securityDefinitions"])
	if !ok {
		return nil
	}
	for _, name := range dialect.SortedKeys(defs) {
		ref := "#/securityDefinitions/" + name
		if !filter.Accepts(ref) {
			continue
		}
		node, ok := dialect.AsMap(defs[name])
		if !ok {
			continue
		}
		ss := &ir.SecurityScheme{ID: name}
		ss.Type, _ = node["type"].(string)
		ss.Name, _ = node["name"].(string)
		ss.In, _ = node["in"].(string)
		ss.Description, _ = node["description"].(string)
		// securityDefinitions is the 2.0 name for 3.x securitySchemes: both
		// land in the same ir.Component kind (spec.md's Supplemented
		// Features), addressed by its 2.0-shaped $ref so dialect-specific
		// operation.security entries still resolve.
		ctx.IR.AddComponent(ref, &ir.Component{Ref: ref, Kind: ir.ComponentSecurityScheme, SecurityScheme: ss})
	}
	return nil
}

func parsePaths(ctx *core.Context, doc dialect.Doc, filter dialect.Filter) error {
	paths, ok := dialect.AsMap(doc["paths"])
	if !ok {
		return nil
	}
	idState := dialect.NewOperationIDState()

	for _, path := range dialect.SortedKeys(paths) {
		pathRef := "#/paths/" + path
		if !filter.Accepts(pathRef) {
			continue
		}
		pathItemNode, ok := dialect.AsMap(paths[path])
		if !ok {
			continue
		}

		pi := ctx.IR.AddPath(path)
		pathLevelParams, _ := dialect.AsSlice(pathItemNode["parameters"])

		for _, method := range dialect.HTTPMethods() {
			opNode, ok := dialect.AsMap(pathItemNode[method])
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

			methodParams, _ := dialect.AsSlice(opNode["parameters"])
			dialect.MergeParameters(op, pathLevelParams, methodParams)
			op.Body = bodyParamAsRequestBody(pathLevelParams, methodParams)

			if responses, ok := dialect.AsMap(opNode["responses"]); ok {
				dialect.ConvertResponses(op, responses)
			}
			if security, ok := dialect.AsSlice(opNode["security"]); ok {
				op.Security = dialect.ConvertSecurity(security)
			}

			pi.SetOperation(method, op)
			if err := ctx.Broadcast(eventbus.Operation, op); err != nil {
				return err
			}
		}
	}
	return nil
}

// bodyParamAsRequestBody finds the (at most one, per Swagger 2.0 rules)
// `in: body` parameter across the path-item and method parameter lists
// and converts it into the 3.x-shaped *ir.RequestBody the IR models,
// since 2.0 has no distinct requestBody node.
func bodyParamAsRequestBody(lists ...[]interface{}) *ir.RequestBody {
	for _, list := range lists {
		for _, raw := range list {
			node, ok := dialect.AsMap(raw)
			if !ok {
				continue
			}
			if in, _ := node["in"].(string); in != "body" {
				continue
			}
			rb := &ir.RequestBody{}
			rb.Description, _ = node["description"].(string)
			rb.Required, _ = node["required"].(bool)
			if schemaNode, ok := dialect.AsMap(node["schema"]); ok {
				rb.Content = []ir.MediaTypeContent{{ContentType: "application/json", Schema: dialect.ConvertSchema(schemaNode)}}
			}
			return rb
		}
	}
	return nil
}

func parseServer(ctx *core.Context, doc dialect.Doc) error {
	host, _ := doc["host"].(string)
	basePath, _ := doc["basePath"].(string)
	if host == "" && basePath == "" {
		return nil
	}
	scheme := "https"
	if schemes, ok := dialect.AsSlice(doc["schemes"]); ok && len(schemes) > 0 {
		if s, ok := schemes[0].(string); ok {
			scheme = s
		}
	}
	s := ir.Server{URL: scheme + "://" + host + basePath}
	ctx.IR.Servers = append(ctx.IR.Servers, s)
	return ctx.Broadcast(eventbus.Server, s)
}

type errNotAnObject string

func (e errNotAnObject) Error() string { return string(e) }
