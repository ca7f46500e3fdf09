package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/fileregistry"
)

// renderFile joins a file's deduplicated imports and its declaration
// sequence into the flat top-level layout spec.md §6 describes: imports
// at the head, one blank line, then every declaration in append order.
func renderFile(f *fileregistry.File) string {
	var b strings.Builder
	for _, imp := range f.Imports {
		fmt.Fprintf(&b, "import %s from %q;\n", imp.Symbol, imp.Module)
	}
	if len(f.Imports) > 0 {
		b.WriteString("\n")
	}
	for _, decl := range f.Nodes {
		b.WriteString(decl)
		b.WriteString("\n\n")
	}
	return b.String()
}

// writeFiles validates the registry and writes every file to disk.
// Validate runs before any write, so a registry error writes nothing. A
// write failure stops the loop and is returned; files written earlier in
// the loop stay on disk, so the output tree is not rolled back.
func writeFiles(registry *fileregistry.Registry) error {
	if err := registry.Validate(); err != nil {
		return core.New(core.KindEmissionError, err)
	}
	for _, f := range registry.Files() {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return core.New(core.KindEmissionError, fmt.Errorf("creating directory for %s: %w", f.Path, err))
		}
		if err := os.WriteFile(f.Path, []byte(renderFile(f)), 0o644); err != nil {
			return core.New(core.KindEmissionError, fmt.Errorf("writing %s: %w", f.Path, err))
		}
	}
	return nil
}
