// Package identifier implements the Identifier Service (spec.md §4.B): a
// stable mapping from $ref to emitted symbol name, with case and collision
// discipline, scoped per output file.
package identifier

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/roberthamel/oascodegen/internal/refresolve"
)

// Namespace separates colliding names used for values vs. types — many
// targets need a runtime constant and a static type sharing a base name
// (spec.md §4.B, §9).
type Namespace string

const (
	NamespaceValue Namespace = "value"
	NamespaceType  Namespace = "type"
)

// Case is the identifier case convention to apply to a derived base name.
type Case string

const (
	CaseCamel     Case = "camelCase"
	CasePascal    Case = "PascalCase"
	CaseSnake     Case = "snake_case"
	CaseScreaming Case = "SCREAMING_SNAKE"
	CasePreserve  Case = "preserve"
)

func applyCase(c Case, name string) string {
	switch c {
	case CaseCamel:
		return strcase.ToLowerCamel(name)
	case CasePascal:
		return strcase.ToCamel(name)
	case CaseSnake:
		return strcase.ToSnake(name)
	case CaseScreaming:
		return strcase.ToScreamingSnake(name)
	case CasePreserve, "":
		return name
	default:
		return name
	}
}

// NameTransformer customizes the base name derived from a $ref before case
// conversion is applied. It is modeled as a tagged variant (spec.md §9):
// either a function, or a printf-like pattern containing "{{name}}".
type NameTransformer struct {
	Fn      func(name string) string
	Pattern string
}

func (t NameTransformer) apply(name string) string {
	if t.Fn != nil {
		return t.Fn(name)
	}
	if t.Pattern != "" {
		return strings.ReplaceAll(t.Pattern, "{{name}}", name)
	}
	return name
}

// Identifier is a stable emitted symbol name associated with a $ref and
// namespace (spec.md §3).
type Identifier struct {
	Ref       string
	Namespace Namespace
	Name      string
	Created   bool
}

type key struct {
	ref string
	ns  Namespace
}

// Table owns the $ref -> name map for a single output file. The spec
// scopes the Identifier Service per file (§4.B), so one Table is created
// per file by the File Registry.
type Table struct {
	byKey       map[key]*Identifier
	usedByNS    map[Namespace]map[string]bool // collision detection within (file, namespace)
}

// NewTable returns an empty identifier table for one file.
func NewTable() *Table {
	return &Table{
		byKey:    make(map[key]*Identifier),
		usedByNS: make(map[Namespace]map[string]bool),
	}
}

// Request bundles the arguments to Identifier (spec.md §4.B).
type Request struct {
	Ref             string
	Case            Case
	Namespace       Namespace
	Create          bool
	NameTransformer NameTransformer
}

// Identifier resolves or creates the identifier for req.Ref within this
// table. If a mapping already exists it is returned unchanged with
// Created=false. If Create is true and none exists, a name is derived from
// the ref's last path segment, run through NameTransformer then case
// conversion, disambiguated against any existing name in the same
// namespace by appending a numeric suffix, and recorded. Otherwise the
// empty-name sentinel is returned so the caller can treat the ref as "not
// yet generated" (inline fallback or lazy wrapper).
func (t *Table) Identifier(req Request) Identifier {
	k := key{ref: req.Ref, ns: req.Namespace}
	if existing, ok := t.byKey[k]; ok {
		return Identifier{Ref: existing.Ref, Namespace: existing.Namespace, Name: existing.Name, Created: false}
	}

	if !req.Create {
		return Identifier{Ref: req.Ref, Namespace: req.Namespace, Name: "", Created: false}
	}

	base := refresolve.LastSegment(req.Ref)
	base = req.NameTransformer.apply(base)
	name := applyCase(req.Case, base)
	name = t.disambiguate(req.Namespace, name)

	if t.usedByNS[req.Namespace] == nil {
		t.usedByNS[req.Namespace] = make(map[string]bool)
	}
	t.usedByNS[req.Namespace][name] = true

	id := &Identifier{Ref: req.Ref, Namespace: req.Namespace, Name: name, Created: true}
	t.byKey[k] = id
	return Identifier{Ref: id.Ref, Namespace: id.Namespace, Name: id.Name, Created: true}
}

// disambiguate appends a numeric suffix until name is unused within ns.
func (t *Table) disambiguate(ns Namespace, name string) string {
	used := t.usedByNS[ns]
	if used == nil || !used[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", name, i)
		if !used[candidate] {
			return candidate
		}
	}
}

// Names returns all names currently recorded in namespace ns, for testing
// and diagnostics.
func (t *Table) Names(ns Namespace) []string {
	var names []string
	for k, id := range t.byKey {
		if k.ns == ns {
			names = append(names, id.Name)
		}
	}
	return names
}
