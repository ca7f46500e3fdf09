package schemaemit

import (
	"strings"

	"github.com/roberthamel/oascodegen/internal/ir"
)

// EmitOperationBundle synthesizes the single object schema spec.md §4.I
// describes for per-operation emission: `{ body, headers, path, query }`,
// each `never` when absent, with required flags honored at both the
// group and member level.
func (e *Emitter) EmitOperationBundle(op *ir.Operation) (string, error) {
	headers, err := e.emitParamGroup(op, ir.GroupHeader)
	if err != nil {
		return "", err
	}
	path, err := e.emitParamGroup(op, ir.GroupPath)
	if err != nil {
		return "", err
	}
	query, err := e.emitParamGroup(op, ir.GroupQuery)
	if err != nil {
		return "", err
	}
	body, err := e.emitBody(op)
	if err != nil {
		return "", err
	}

	return "S.object({ body: " + body + ", headers: " + headers + ", path: " + path + ", query: " + query + " })", nil
}

func (e *Emitter) emitParamGroup(op *ir.Operation, group ir.ParamGroup) (string, error) {
	names := op.ParameterOrder[group]
	if len(names) == 0 {
		return "S.never()", nil
	}

	anyRequired := false
	fields := make([]string, 0, len(names))
	for _, name := range names {
		p := op.Parameters[group][name]
		expr, err := e.emitSchema(p.Schema, !p.Required)
		if err != nil {
			return "", err
		}
		if p.Required {
			anyRequired = true
		}
		fields = append(fields, sanitizeKey(name)+": "+expr)
	}
	code := "S.object({ " + strings.Join(fields, ", ") + " })"
	if !anyRequired {
		code += ".optional()"
	}
	return code, nil
}

func (e *Emitter) emitBody(op *ir.Operation) (string, error) {
	if op.Body == nil || len(op.Body.Content) == 0 {
		return "S.never()", nil
	}
	mt := op.Body.Content[0]
	expr, err := e.emitSchema(mt.Schema, !op.Body.Required)
	if err != nil {
		return "", err
	}
	return expr, nil
}
