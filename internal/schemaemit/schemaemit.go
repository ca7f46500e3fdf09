// Package schemaemit translates an IR schema tree into an expression in a
// target schema-library vocabulary (spec.md §4.I), handling recursive
// component graphs via an explicit visiting stack rather than Go's own
// call stack, since the cycle-break decision (`S.lazy(...)`) must be made
// before the recursive call that would otherwise never return.
package schemaemit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/identifier"
	"github.com/roberthamel/oascodegen/internal/ir"
)

// Emitter holds the per-file state threaded through one emission run: the
// identifier table for the file being generated, the circular-reference
// visiting stack, and the accumulated top-level declarations.
type Emitter struct {
	Model           *ir.Model
	Table           *identifier.Table
	NameCase        identifier.Case
	NameTransformer identifier.NameTransformer
	EmitMetadata    bool

	stack        []string
	stackPos     map[string]int
	declared     map[string]bool
	forceAnyType map[string]bool

	// Declarations accumulates "const Name = expr" top-level statements in
	// the order their emission completed, so a component reached through a
	// $ref is declared before the component that references it.
	Declarations []string
}

// New returns an Emitter bound to one output file's identifier table.
func New(model *ir.Model, table *identifier.Table, nameCase identifier.Case, nt identifier.NameTransformer, emitMetadata bool) *Emitter {
	return &Emitter{
		Model:           model,
		Table:           table,
		NameCase:        nameCase,
		NameTransformer: nt,
		EmitMetadata:    emitMetadata,
		stackPos:        make(map[string]int),
		declared:        make(map[string]bool),
		forceAnyType:    make(map[string]bool),
	}
}

// EmitComponent forces the declaration of the component at ref (if not
// already declared) and returns its identifier name.
func (e *Emitter) EmitComponent(ref string) (string, error) {
	return e.ensureDeclared(ref)
}

// EmitInline emits a non-top-level schema expression (e.g. a parameter's
// schema, or a property whose $ref forces a sibling declaration).
func (e *Emitter) EmitInline(s *ir.Schema, optional bool) (string, error) {
	return e.emitSchema(s, optional)
}

func (e *Emitter) ensureDeclared(ref string) (string, error) {
	if e.declared[ref] {
		return e.nameFor(ref)
	}
	comp, ok := e.Model.Components[ref]
	if !ok || comp.Schema == nil {
		return "", core.New(core.KindRefNotFound, fmt.Errorf("ref not found: %s", ref))
	}

	id := e.Table.Identifier(identifier.Request{
		Ref: ref, Case: e.NameCase, Namespace: identifier.NamespaceType,
		Create: true, NameTransformer: e.NameTransformer,
	})

	e.stackPos[ref] = len(e.stack)
	e.stack = append(e.stack, ref)

	body, err := e.emitSchema(comp.Schema, false)

	e.stack = e.stack[:len(e.stack)-1]
	delete(e.stackPos, ref)

	if err != nil {
		return "", err
	}

	decl := "const " + id.Name + " = " + body
	if e.forceAnyType[ref] {
		anyType := "AnySchema"
		if comp.Schema.Kind == ir.KindObject {
			anyType = "AnyObjectSchema"
		}
		decl = "const " + id.Name + ": S." + anyType + " = " + body
	}
	e.Declarations = append(e.Declarations, decl)
	e.declared[ref] = true
	return id.Name, nil
}

func (e *Emitter) nameFor(ref string) (string, error) {
	id := e.Table.Identifier(identifier.Request{Ref: ref, Case: e.NameCase, Namespace: identifier.NamespaceType, Create: false})
	if id.Name == "" {
		return "", core.New(core.KindEmissionError, fmt.Errorf("identifier for %s requested before creation", ref))
	}
	return id.Name, nil
}

// resolveRefExpr is the $ref dispatch branch of spec.md §4.I's Emit
// contract.
func (e *Emitter) resolveRefExpr(ref string) (string, error) {
	if pos, onStack := e.stackPos[ref]; onStack {
		for _, r := range e.stack[pos:] {
			e.forceAnyType[r] = true
		}
		name, err := e.nameFor(ref)
		if err != nil {
			return "", err
		}
		return "S.lazy(() => " + name + ")", nil
	}

	id := e.Table.Identifier(identifier.Request{Ref: ref, Case: e.NameCase, Namespace: identifier.NamespaceType, Create: false})
	if id.Name == "" {
		if _, err := e.ensureDeclared(ref); err != nil {
			return "", err
		}
	}
	return e.nameFor(ref)
}

func (e *Emitter) emitSchema(s *ir.Schema, optional bool) (string, error) {
	if s == nil {
		return "S.unknown()", nil
	}

	var code string
	var err error

	switch s.Kind {
	case ir.KindRef:
		code, err = e.resolveRefExpr(s.Ref)
	case ir.KindString:
		code = e.emitString(s)
	case ir.KindInteger, ir.KindNumber:
		code = e.emitNumeric(s)
	case ir.KindBoolean:
		code = emitBoolean(s)
	case ir.KindNull:
		code = "S.null()"
	case ir.KindUndefined:
		code = "S.undefined()"
	case ir.KindUnknown:
		code = "S.unknown()"
	case ir.KindNever:
		code = "S.never()"
	case ir.KindVoid:
		code = "S.void()"
	case ir.KindArray:
		code, err = e.emitArray(s)
	case ir.KindTuple:
		code, err = e.emitTuple(s)
	case ir.KindEnum:
		code = emitEnum(s)
	case ir.KindObject:
		code, err = e.emitObject(s)
	case ir.KindComposite:
		code, err = e.emitComposite(s)
	default:
		code = "S.unknown()"
	}
	if err != nil {
		return "", err
	}

	return e.applyModifiers(code, s, optional), nil
}

// applyModifiers appends the post-emission modifier chain in the fixed
// order spec.md §4.I names: readonly, optional, default, describe.
func (e *Emitter) applyModifiers(code string, s *ir.Schema, optional bool) string {
	if s.AccessScope == ir.AccessRead {
		code += ".readonly()"
	}
	if optional {
		code += ".optional()"
	}
	if s.Default != nil {
		code += ".default(" + literal(s.Default) + ")"
	}
	if e.EmitMetadata && s.Description != "" {
		code += fmt.Sprintf(".describe(%q)", s.Description)
	}
	return code
}

var stringFormatRefinement = map[string]string{
	"date-time": ".datetime()",
	"ipv4":      ".ip()",
	"ipv6":      ".ip()",
	"uri":       ".url()",
	"date":      ".date()",
	"email":     ".email()",
	"time":      ".time()",
	"uuid":      ".uuid()",
}

func (e *Emitter) emitString(s *ir.Schema) string {
	if s.Const != nil {
		return "S.literal(" + literal(s.Const) + ")"
	}
	code := "S.string()"
	if refinement, ok := stringFormatRefinement[s.Format]; ok {
		code += refinement
	}
	switch {
	case s.MinLength != nil && s.MaxLength != nil && *s.MinLength == *s.MaxLength:
		code += fmt.Sprintf(".length(%d)", *s.MinLength)
	default:
		if s.MinLength != nil {
			code += fmt.Sprintf(".min(%d)", *s.MinLength)
		}
		if s.MaxLength != nil {
			code += fmt.Sprintf(".max(%d)", *s.MaxLength)
		}
	}
	if s.Pattern != "" {
		code += fmt.Sprintf(".regex(/%s/)", s.Pattern)
	}
	return code
}

func (e *Emitter) emitNumeric(s *ir.Schema) string {
	if s.Const != nil {
		if s.Format == "int64" {
			return "S.literal(BigInt(" + literal(s.Const) + "))"
		}
		return "S.literal(" + literal(s.Const) + ")"
	}
	if s.Format == "int64" {
		return "S.coerce.bigint()"
	}
	code := "S.number()"
	switch {
	case s.ExclusiveMinimum != nil:
		code += fmt.Sprintf(".gt(%s)", formatFloat(*s.ExclusiveMinimum))
	case s.Minimum != nil:
		code += fmt.Sprintf(".gte(%s)", formatFloat(*s.Minimum))
	}
	switch {
	case s.ExclusiveMaximum != nil:
		code += fmt.Sprintf(".lt(%s)", formatFloat(*s.ExclusiveMaximum))
	case s.Maximum != nil:
		code += fmt.Sprintf(".lte(%s)", formatFloat(*s.Maximum))
	}
	return code
}

func emitBoolean(s *ir.Schema) string {
	if s.Const != nil {
		return "S.literal(" + literal(s.Const) + ")"
	}
	return "S.boolean()"
}

func emitEnum(s *ir.Schema) string {
	var members []string
	nullable := false
	for _, m := range s.EnumMembers {
		if m.Kind == ir.KindNull {
			nullable = true
			continue
		}
		members = append(members, literal(m.Const))
	}
	if len(members) == 0 {
		return "S.unknown()"
	}
	code := "S.enum([" + strings.Join(members, ", ") + "])"
	if nullable {
		code += ".nullable()"
	}
	return code
}

func (e *Emitter) emitArray(s *ir.Schema) (string, error) {
	var itemExpr string
	switch len(s.Items) {
	case 0:
		itemExpr = "S.unknown()"
	case 1:
		expr, err := e.emitSchema(s.Items[0], false)
		if err != nil {
			return "", err
		}
		itemExpr = expr
	default:
		exprs := make([]string, 0, len(s.Items))
		for _, item := range s.Items {
			expr, err := e.emitSchema(item, false)
			if err != nil {
				return "", err
			}
			exprs = append(exprs, expr)
		}
		itemExpr = "S.union([" + strings.Join(exprs, ", ") + "])"
	}
	code := "S.array(" + itemExpr + ")"
	switch {
	case s.MinItems != nil && s.MaxItems != nil && *s.MinItems == *s.MaxItems:
		code += fmt.Sprintf(".length(%d)", *s.MinItems)
	default:
		if s.MinItems != nil {
			code += fmt.Sprintf(".min(%d)", *s.MinItems)
		}
		if s.MaxItems != nil {
			code += fmt.Sprintf(".max(%d)", *s.MaxItems)
		}
	}
	return code, nil
}

func (e *Emitter) emitTuple(s *ir.Schema) (string, error) {
	exprs := make([]string, 0, len(s.Items))
	if s.TupleConst != nil {
		for _, v := range s.TupleConst {
			exprs = append(exprs, "S.literal("+literal(v)+")")
		}
	} else {
		for _, item := range s.Items {
			expr, err := e.emitSchema(item, false)
			if err != nil {
				return "", err
			}
			exprs = append(exprs, expr)
		}
	}
	return "S.tuple([" + strings.Join(exprs, ", ") + "])", nil
}

var identLikeKey = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
var numericKey = regexp.MustCompile(`^-?[0-9]+$`)

func sanitizeKey(name string) string {
	if identLikeKey.MatchString(name) {
		return name
	}
	if numericKey.MatchString(name) {
		if strings.HasPrefix(name, "-") {
			return strconv.Quote(name)
		}
		return name
	}
	return strconv.Quote(name)
}

func (e *Emitter) emitObject(s *ir.Schema) (string, error) {
	fields := make([]string, 0, len(s.PropertyOrder))
	for _, name := range s.PropertyOrder {
		prop := s.Properties[name]
		expr, err := e.emitSchema(prop, !s.IsRequired(name))
		if err != nil {
			return "", err
		}
		fields = append(fields, sanitizeKey(name)+": "+expr)
	}
	base := "S.object({})"
	if len(fields) > 0 {
		base = "S.object({ " + strings.Join(fields, ", ") + " })"
	}

	ap := s.AdditionalProperties
	if ap == nil || (ap.Allowed && ap.Schema == nil) {
		// Absent or bare `additionalProperties: true`: the conservative
		// default, no modifier.
		return base, nil
	}
	if !ap.Allowed {
		return base + ".strict()", nil
	}
	catchall, err := e.emitSchema(ap.Schema, false)
	if err != nil {
		return "", err
	}
	return base + ".catchall(" + catchall + ")", nil
}

func (e *Emitter) emitComposite(s *ir.Schema) (string, error) {
	seen := make(map[string]bool)
	var exprs []string
	var items []*ir.Schema
	for _, item := range s.Items {
		var expr string
		if s.LogicalOperator == ir.LogicalAnd && item.Kind == ir.KindArray {
			// An array cannot chain .and() with the object schemas an
			// intersection otherwise requires; degrade this member to
			// unknown rather than emitting an invalid or fatal expression.
			expr = "S.unknown()"
		} else {
			var err error
			expr, err = e.emitSchema(item, false)
			if err != nil {
				return "", err
			}
		}
		if seen[expr] {
			continue
		}
		seen[expr] = true
		exprs = append(exprs, expr)
		items = append(items, item)
	}

	if s.LogicalOperator == ir.LogicalOr {
		return "S.union([" + strings.Join(exprs, ", ") + "])", nil
	}

	allObjects := true
	for _, item := range items {
		if item.Kind != ir.KindObject && item.Kind != ir.KindRef {
			allObjects = false
			break
		}
	}
	if allObjects && len(exprs) > 0 {
		code := exprs[0]
		for _, expr := range exprs[1:] {
			code += ".and(" + expr + ")"
		}
		return code, nil
	}
	return "S.intersection([" + strings.Join(exprs, ", ") + "])", nil
}

func literal(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return formatFloat(val)
	case int:
		return strconv.Itoa(val)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
