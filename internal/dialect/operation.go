package dialect

import (
	"strconv"
	"strings"

	"github.com/roberthamel/oascodegen/internal/ir"
)

// httpMethods lists the method keys a path item may carry, in the fixed
// order operations are considered within one path (spec.md §4.E step 2,
// §5 "operation events delivered in path then method order").
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// OperationIDState tracks synthesized operation ids across an entire
// parse so dedup counters are global, not per-path (spec.md §4.E
// "Operation id synthesis... tracked in state.operationIds").
type OperationIDState struct {
	seen map[string]int
}

// NewOperationIDState returns empty synthesis state.
func NewOperationIDState() *OperationIDState {
	return &OperationIDState{seen: make(map[string]int)}
}

// ResolveOperationID returns declared if non-empty and not yet used,
// otherwise derives "method_pathSegments" and disambiguates with a
// trailing counter.
func (st *OperationIDState) ResolveOperationID(declared, method, path string) string {
	candidate := declared
	if candidate == "" {
		candidate = synthesizeOperationID(method, path)
	}
	if n, exists := st.seen[candidate]; !exists {
		st.seen[candidate] = 1
		return candidate
	} else {
		n++
		st.seen[candidate] = n
		return candidate + strconv.Itoa(n)
	}
}

func synthesizeOperationID(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	cleaned := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.Trim(seg, "{}")
		if seg != "" {
			cleaned = append(cleaned, seg)
		}
	}
	return strings.ToLower(method) + "_" + strings.Join(cleaned, "_")
}

// ConvertParameter builds an *ir.Parameter from a raw parameter node.
func ConvertParameter(node Doc) *ir.Parameter {
	p := &ir.Parameter{}
	p.Name, _ = node["name"].(string)
	p.In, _ = node["in"].(string)
	p.Description, _ = node["description"].(string)
	p.Required, _ = node["required"].(bool)
	if schemaNode, ok := AsMap(node["schema"]); ok {
		p.Schema = ConvertSchema(schemaNode)
	} else {
		// Swagger 2.0 inlines type/format/etc. directly on the parameter
		// node rather than nesting under "schema".
		p.Schema = ConvertSchema(node)
	}
	return p
}

// ParamGroupOf maps a raw "in" value to the IR's ParamGroup, or "" if it
// names a location the IR does not model as a request-bundle group
// (e.g. swagger2's "body"/"formData", handled by the caller instead).
func ParamGroupOf(in string) (ir.ParamGroup, bool) {
	switch in {
	case "header":
		return ir.GroupHeader, true
	case "path":
		return ir.GroupPath, true
	case "query":
		return ir.GroupQuery, true
	case "cookie":
		return ir.GroupCookie, true
	default:
		return "", false
	}
}

// MergeParameters applies the path-item-then-method merge rule (method
// wins on name collision within the same group) onto op.
func MergeParameters(op *ir.Operation, pathItemParams, methodParams []interface{}) {
	for _, raw := range pathItemParams {
		applyParam(op, raw)
	}
	for _, raw := range methodParams {
		applyParam(op, raw)
	}
}

func applyParam(op *ir.Operation, raw interface{}) {
	node, ok := AsMap(raw)
	if !ok {
		return
	}
	p := ConvertParameter(node)
	group, ok := ParamGroupOf(p.In)
	if !ok {
		return
	}
	op.SetParameter(group, p)
}

// ConvertRequestBody builds an *ir.RequestBody from a raw requestBody
// node (OAS 3.x shape: {description, required, content: {mediaType:
// {schema}}}).
func ConvertRequestBody(node Doc) *ir.RequestBody {
	rb := &ir.RequestBody{}
	rb.Description, _ = node["description"].(string)
	rb.Required, _ = node["required"].(bool)
	if content, ok := AsMap(node["content"]); ok {
		for _, ct := range SortedKeys(content) {
			mt, ok := AsMap(content[ct])
			if !ok {
				continue
			}
			var schema *ir.Schema
			if schemaNode, ok := AsMap(mt["schema"]); ok {
				schema = ConvertSchema(schemaNode)
			}
			rb.Content = append(rb.Content, ir.MediaTypeContent{ContentType: ct, Schema: schema})
		}
	}
	return rb
}

// ConvertResponses builds the status->Response map (insertion order
// preserved via AddResponse) from a raw responses node.
func ConvertResponses(op *ir.Operation, node Doc) {
	for _, code := range SortedKeys(node) {
		respNode, ok := AsMap(node[code])
		if !ok {
			continue
		}
		r := &ir.Response{StatusCode: code}
		r.Description, _ = respNode["description"].(string)
		if content, ok := AsMap(respNode["content"]); ok {
			for _, ct := range SortedKeys(content) {
				mt, ok := AsMap(content[ct])
				if !ok {
					continue
				}
				var schema *ir.Schema
				if schemaNode, ok := AsMap(mt["schema"]); ok {
					schema = ConvertSchema(schemaNode)
				}
				r.Content = append(r.Content, ir.MediaTypeContent{ContentType: ct, Schema: schema})
			}
		}
		op.AddResponse(code, r)
	}
}

// ConvertSecurity builds the operation-level security requirement list
// from a raw `security` array: each entry is a single-key map from
// scheme name to a scope list.
func ConvertSecurity(raw []interface{}) []ir.SecurityRequirement {
	var out []ir.SecurityRequirement
	for _, entryRaw := range raw {
		entry, ok := AsMap(entryRaw)
		if !ok {
			continue
		}
		for _, name := range SortedKeys(entry) {
			scopesRaw, _ := AsSlice(entry[name])
			var scopes []string
			for _, s := range scopesRaw {
				if str, ok := s.(string); ok {
					scopes = append(scopes, str)
				}
			}
			out = append(out, ir.SecurityRequirement{SchemeName: name, Scopes: scopes})
		}
	}
	return out
}

// HTTPMethods exposes the fixed method iteration order to the
// version-specific parsers.
func HTTPMethods() []string {
	return append([]string(nil), httpMethods...)
}
