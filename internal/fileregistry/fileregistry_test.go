package fileregistry

import (
	"strings"
	"testing"

	"github.com/roberthamel/oascodegen/internal/identifier"
)

func TestCreateFileAndAdd(t *testing.T) {
	r := New("/out")
	f := r.CreateFile("schemas", "schemas.gen.ts", identifier.CasePascal, true)
	f.Add("const Pet = S.object({})")
	f.Import("zod", "z")
	f.Import("zod", "z") // dedup

	if len(f.Nodes) != 1 {
		t.Fatalf("Nodes = %d, want 1", len(f.Nodes))
	}
	if len(f.Imports) != 1 {
		t.Fatalf("Imports = %d, want 1 (deduped)", len(f.Imports))
	}
	if !strings.HasSuffix(f.Path, "schemas.gen.ts") {
		t.Errorf("Path = %q, want suffix schemas.gen.ts", f.Path)
	}
}

func TestCreateFileDuplicateIDReturnsExisting(t *testing.T) {
	r := New("/out")
	a := r.CreateFile("schemas", "schemas.gen.ts", identifier.CasePascal, true)
	a.Add("first")
	b := r.CreateFile("schemas", "other.gen.ts", identifier.CasePascal, false)
	if b != a {
		t.Fatal("expected duplicate CreateFile to return the existing file")
	}
	if b.Path != a.Path {
		t.Errorf("duplicate create should not change path: got %q", b.Path)
	}
}

func TestFilesPreservesCreationOrder(t *testing.T) {
	r := New("/out")
	r.CreateFile("b", "b.ts", identifier.CasePascal, false)
	r.CreateFile("a", "a.ts", identifier.CasePascal, false)
	files := r.Files()
	if len(files) != 2 || files[0].ID != "b" || files[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", files)
	}
}
