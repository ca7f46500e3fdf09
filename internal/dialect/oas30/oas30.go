// Package oas30 parses OpenAPI 3.0.x documents into the core IR.
package oas30

import (
	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/dialect"
)

// Parse walks a 3.0.x document (ctx.Spec) and populates ctx.IR, broadcasting
// component and operation events as it goes (spec.md §4.E). Filter narrows
// which refs are processed.
func Parse(ctx *core.Context, filter dialect.Filter) error {
	return dialect.ParseOAS3(ctx, filter)
}
