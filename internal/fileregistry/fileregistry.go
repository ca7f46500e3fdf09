// Package fileregistry owns emitted files: their declarations, imports,
// and barrel-file (index re-export) flag (spec.md §4.C).
package fileregistry

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/roberthamel/oascodegen/internal/identifier"
)

// Import is a single (module, symbol) import edge. The registry
// deduplicates these per file.
type Import struct {
	Module string
	Symbol string
}

// File is a single emitted output file: an ordered sequence of top-level
// declarations plus a deduplicated import set.
type File struct {
	ID              string
	Path            string // output root joined with the relative path given to CreateFile
	IdentifierCase  identifier.Case
	ExportFromIndex bool

	Nodes   []string // rendered top-level declarations, in append order
	imports map[Import]bool
	Imports []Import // insertion order, deduplicated

	Identifiers *identifier.Table
}

// Add appends decl as the next top-level declaration in the file.
func (f *File) Add(decl string) {
	f.Nodes = append(f.Nodes, decl)
}

// Import records a (module, symbol) import, deduplicated.
func (f *File) Import(module, symbol string) {
	key := Import{Module: module, Symbol: symbol}
	if f.imports[key] {
		return
	}
	f.imports[key] = true
	f.Imports = append(f.Imports, key)
}

// Registry owns every emitted File for a run, keyed by file id.
type Registry struct {
	outputRoot string
	files      map[string]*File
	order      []string
}

// New returns a Registry rooted at outputRoot (spec.md §6 "output.path").
func New(outputRoot string) *Registry {
	return &Registry{outputRoot: outputRoot, files: make(map[string]*File)}
}

// CreateFile creates (or, on duplicate id, returns the existing) file
// lazily referenced by id, at relPath under the output root. Duplicate
// creation with the same id is a programmer error: it is logged as a
// warning and the existing file wins (spec.md §4.C).
func (r *Registry) CreateFile(id, relPath string, identCase identifier.Case, exportFromIndex bool) *File {
	if existing, ok := r.files[id]; ok {
		log.Printf("WARNING: fileregistry: file %q already created at %q; ignoring duplicate CreateFile(%q)", id, existing.Path, relPath)
		return existing
	}
	f := &File{
		ID:              id,
		Path:            filepath.Join(r.outputRoot, relPath),
		IdentifierCase:  identCase,
		ExportFromIndex: exportFromIndex,
		imports:         make(map[Import]bool),
		Identifiers:     identifier.NewTable(),
	}
	r.files[id] = f
	r.order = append(r.order, id)
	return f
}

// File returns the file registered under id, or nil if none has been
// created yet.
func (r *Registry) File(id string) *File {
	return r.files[id]
}

// Files returns every registered file in creation order.
func (r *Registry) Files() []*File {
	out := make([]*File, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.files[id])
	}
	return out
}

// Validate checks that no two files resolve to the same path. File ids are
// already unique because CreateFile returns the existing file for a
// duplicate id. Useful as a final consistency check before the external
// finalizer writes files to disk.
func (r *Registry) Validate() error {
	seenPaths := make(map[string]string)
	for _, f := range r.Files() {
		if owner, ok := seenPaths[f.Path]; ok {
			return fmt.Errorf("fileregistry: files %q and %q both resolve to path %q", owner, f.ID, f.Path)
		}
		seenPaths[f.Path] = f.ID
	}
	return nil
}
