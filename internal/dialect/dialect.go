// Package dialect holds the raw-document helpers and filter/version
// sniffing shared by the three version-specific parsers (spec.md §4.E).
// Each parser lives in its own subpackage (swagger2, oas30, oas31) but all
// three share one entry signature and this package's conversion routines,
// since the SchemaObject shape the spec describes is dialect-independent
// except for a handful of keyword spellings normalized here.
package dialect

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/ir"
)

// Version identifies which of the three supported dialects a document
// uses.
type Version string

const (
	VersionSwagger2 Version = "2.0"
	VersionOAS30    Version = "3.0"
	VersionOAS31    Version = "3.1"
)

// Doc is a raw deserialized document node: the yaml.v3/json decode target
// is always map[string]interface{} at object nodes, []interface{} at
// array nodes (spec.md §3 "the raw deserialized OpenAPI document").
type Doc = map[string]interface{}

// Sniff detects the dialect from the top-level `swagger`/`openapi` key
// (spec.md §6 "Dialect detected by the swagger/openapi top-level key").
func Sniff(doc Doc) (Version, error) {
	if v, ok := doc["swagger"].(string); ok && strings.HasPrefix(v, "2.") {
		return VersionSwagger2, nil
	}
	if v, ok := doc["openapi"].(string); ok {
		switch {
		case strings.HasPrefix(v, "3.0"):
			return VersionOAS30, nil
		case strings.HasPrefix(v, "3.1"):
			return VersionOAS31, nil
		}
	}
	return "", core.New(core.KindSpecError, fmt.Errorf("unrecognized or missing swagger/openapi version key"))
}

// Filter compiles include/exclude ref-pattern lists into a predicate over
// $ref strings (spec.md §4.E "Filters"). Patterns are path.Match globs
// evaluated against the ref with its "#/" prefix stripped.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter compiles include and exclude pattern lists.
func NewFilter(include, exclude []string) Filter {
	return Filter{include: include, exclude: exclude}
}

// Accepts reports whether ref passes the filter: included (or no include
// patterns given, meaning accept-all) and not excluded.
func (f Filter) Accepts(ref string) bool {
	subject := strings.TrimPrefix(ref, "#/")
	included := len(f.include) == 0
	for _, pat := range f.include {
		if ok, _ := path.Match(pat, subject); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pat := range f.exclude {
		if ok, _ := path.Match(pat, subject); ok {
			return false
		}
	}
	return true
}

// AsMap narrows an interface{} node to an object map, or reports false
// for any other shape (including nil).
func AsMap(v interface{}) (Doc, bool) {
	m, ok := v.(Doc)
	return m, ok
}

// AsSlice narrows an interface{} node to an array.
func AsSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// SortedKeys returns m's keys sorted, used only where the source format
// genuinely carries no insertion order (map[string]interface{} decoded
// from JSON loses it); yaml.v3 into a Doc also loses order once values
// pass through interface{}, so callers that need spec insertion order
// should prefer an *yaml.Node walk. The dialect parsers here sort
// component names lexically as their deterministic fallback ordering,
// noted as an Open Question resolution in the grounding ledger.
func SortedKeys(m Doc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConvertSchema turns a raw schema node into an *ir.Schema, normalizing
// the two nullable conventions (spec.md's Supplemented Features):
// `nullable: true` (2.0/3.0) and 3.1's `type: [T, "null"]` both produce a
// composite-or node with a KindNull member alongside the base type.
func ConvertSchema(node Doc) *ir.Schema {
	if ref, ok := node["$ref"].(string); ok {
		return &ir.Schema{Kind: ir.KindRef, Ref: ref}
	}

	typeNames, isNullable := normalizeType(node["type"])
	if node["nullable"] == true {
		isNullable = true
	}

	if enumRaw, ok := AsSlice(node["enum"]); ok {
		return convertEnum(enumRaw)
	}

	if oneOf, ok := AsSlice(node["oneOf"]); ok {
		return convertComposite(oneOf, ir.LogicalOr, node)
	}
	if anyOf, ok := AsSlice(node["anyOf"]); ok {
		return convertComposite(anyOf, ir.LogicalOr, node)
	}
	if allOf, ok := AsSlice(node["allOf"]); ok {
		return convertComposite(allOf, ir.LogicalAnd, node)
	}

	if len(typeNames) == 0 {
		return &ir.Schema{Kind: ir.KindUnknown}
	}

	base := convertPrimitiveOrContainer(typeNames[0], node)
	if isNullable {
		return &ir.Schema{
			Kind:            ir.KindComposite,
			LogicalOperator: ir.LogicalOr,
			Items:           []*ir.Schema{base, {Kind: ir.KindNull}},
		}
	}
	return base
}

// normalizeType resolves `type` whether it is a single string (2.0/3.0)
// or an array of strings (3.1's `type: [T, "null"]`), reporting whether a
// "null" member was present alongside another type.
func normalizeType(raw interface{}) (names []string, nullable bool) {
	switch t := raw.(type) {
	case string:
		return []string{t}, false
	case []interface{}:
		for _, v := range t {
			s, _ := v.(string)
			if s == "null" {
				nullable = true
				continue
			}
			if s != "" {
				names = append(names, s)
			}
		}
		return names, nullable
	default:
		return nil, false
	}
}

func convertEnum(raw []interface{}) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindEnum}
	for _, v := range raw {
		if v == nil {
			s.EnumMembers = append(s.EnumMembers, &ir.Schema{Kind: ir.KindNull})
			continue
		}
		s.EnumMembers = append(s.EnumMembers, &ir.Schema{Kind: ir.KindString, Const: v})
	}
	return s
}

func convertComposite(items []interface{}, op ir.LogicalOperator, node Doc) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindComposite, LogicalOperator: op}
	for _, raw := range items {
		if m, ok := AsMap(raw); ok {
			s.Items = append(s.Items, ConvertSchema(m))
		}
	}
	if disc, ok := AsMap(node["discriminator"]); ok {
		d := &ir.Discriminator{}
		if pn, ok := disc["propertyName"].(string); ok {
			d.PropertyName = pn
		}
		if mapping, ok := AsMap(disc["mapping"]); ok {
			d.Mapping = make(map[string]string, len(mapping))
			for k, v := range mapping {
				if vs, ok := v.(string); ok {
					d.Mapping[k] = vs
				}
			}
		}
		s.Discriminator = d
	}
	return s
}

func convertPrimitiveOrContainer(typeName string, node Doc) *ir.Schema {
	switch typeName {
	case "string":
		return convertString(node)
	case "integer", "number":
		return convertNumeric(typeName, node)
	case "boolean":
		s := &ir.Schema{Kind: ir.KindBoolean}
		s.Const = node["const"]
		return s
	case "array":
		return convertArray(node)
	case "object":
		return convertObject(node)
	default:
		return &ir.Schema{Kind: ir.KindUnknown}
	}
}

func convertString(node Doc) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindString}
	s.Format, _ = node["format"].(string)
	s.Pattern, _ = node["pattern"].(string)
	s.Const = node["const"]
	s.MinLength = intPtr(node["minLength"])
	s.MaxLength = intPtr(node["maxLength"])
	return s
}

func convertNumeric(typeName string, node Doc) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindInteger}
	if typeName == "number" {
		s.Kind = ir.KindNumber
	}
	s.Format, _ = node["format"].(string)
	s.Const = node["const"]
	s.Minimum = floatPtr(node["minimum"])
	s.Maximum = floatPtr(node["maximum"])
	s.ExclusiveMinimum = floatPtr(node["exclusiveMinimum"])
	s.ExclusiveMaximum = floatPtr(node["exclusiveMaximum"])
	return s
}

func convertArray(node Doc) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindArray, LogicalOperator: ir.LogicalOr}
	if itemsNode, ok := AsMap(node["items"]); ok {
		s.Items = []*ir.Schema{ConvertSchema(itemsNode)}
	}
	s.MinItems = intPtr(node["minItems"])
	s.MaxItems = intPtr(node["maxItems"])
	return s
}

func convertObject(node Doc) *ir.Schema {
	s := &ir.Schema{Kind: ir.KindObject}
	if props, ok := AsMap(node["properties"]); ok {
		for _, name := range SortedKeys(props) {
			if propNode, ok := AsMap(props[name]); ok {
				prop := ConvertSchema(propNode)
				prop.AccessScope = accessScopeOf(propNode)
				s.SetProperty(name, prop)
			}
		}
	}
	if req, ok := AsSlice(node["required"]); ok {
		s.Required = make(map[string]bool, len(req))
		for _, v := range req {
			if name, ok := v.(string); ok {
				s.Required[name] = true
			}
		}
	}
	switch ap := node["additionalProperties"].(type) {
	case bool:
		s.AdditionalProperties = &ir.AdditionalProperties{Allowed: ap}
	case Doc:
		s.AdditionalProperties = &ir.AdditionalProperties{Allowed: true, Schema: ConvertSchema(ap)}
	default:
		s.AdditionalProperties = &ir.AdditionalProperties{Allowed: true}
	}
	return s
}

func accessScopeOf(node Doc) ir.AccessScope {
	switch {
	case node["readOnly"] == true:
		return ir.AccessRead
	case node["writeOnly"] == true:
		return ir.AccessWrite
	default:
		return ir.AccessUndefined
	}
}

func intPtr(v interface{}) *int {
	switch n := v.(type) {
	case int:
		return &n
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}

func floatPtr(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}
