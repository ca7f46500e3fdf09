// Package oas31 parses OpenAPI 3.1.x documents into the core IR.
package oas31

import (
	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/dialect"
)

// Parse walks a 3.1.x document the same way oas30.Parse does: the 3.1
// document shape differs from 3.0 only in the nullable convention, which
// dialect.ConvertSchema already normalizes (spec.md's Supplemented
// Features).
func Parse(ctx *core.Context, filter dialect.Filter) error {
	return dialect.ParseOAS3(ctx, filter)
}
