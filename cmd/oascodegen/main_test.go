package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roberthamel/oascodegen/internal/core"
	"github.com/roberthamel/oascodegen/internal/fileregistry"
	"github.com/roberthamel/oascodegen/internal/identifier"
)

// newRootCmd builds the same command tree as main() for testing.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "oascodegen",
		Version: version,
	}
	rootCmd.PersistentFlags().String("input", "", "")
	rootCmd.PersistentFlags().StringSlice("input.include", nil, "")
	rootCmd.PersistentFlags().StringSlice("input.exclude", nil, "")
	rootCmd.PersistentFlags().String("output.path", "", "")
	rootCmd.PersistentFlags().Bool("parser.transforms.enums.enabled", false, "")
	rootCmd.PersistentFlags().String("parser.transforms.enums.mode", "", "")
	rootCmd.PersistentFlags().Bool("parser.transforms.readWrite.enabled", false, "")
	rootCmd.PersistentFlags().String("definitions.case", "", "")
	rootCmd.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// execCmd runs a cobra command with the given args and captures stdout.
func execCmd(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	err = cmd.Execute()
	_ = w.Close()
	os.Stdout = oldStdout

	var piped bytes.Buffer
	_, _ = piped.ReadFrom(r)
	return buf.String() + piped.String(), err
}

const petstoreFixture = `
openapi: 3.1.0
info:
  title: Petstore
  version: "1.0"
paths:
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
          minLength: 1
`

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "petstore.yaml")
	if err := os.WriteFile(path, []byte(petstoreFixture), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestGenerateWritesSchemasFile(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFixture(t, dir)
	outDir := filepath.Join(dir, "out")

	stdout, err := execCmd(t, "generate", "--input", specPath, "--output.path", outDir)
	if err != nil {
		t.Fatalf("generate failed: %v\noutput: %s", err, stdout)
	}

	schemas, err := os.ReadFile(filepath.Join(outDir, "schemas.gen.ts"))
	if err != nil {
		t.Fatalf("reading generated schemas file: %v", err)
	}
	if !strings.Contains(string(schemas), "const Pet = S.object(") {
		t.Errorf("schemas.gen.ts missing Pet declaration:\n%s", schemas)
	}
	if !strings.Contains(string(schemas), "S.coerce.bigint()") {
		t.Errorf("schemas.gen.ts missing int64 bigint coercion:\n%s", schemas)
	}

	if _, err := os.Stat(filepath.Join(outDir, "TYPESHAPES.md")); err != nil {
		t.Errorf("expected TYPESHAPES.md to be written: %v", err)
	}
}

func TestGenerateMissingInputIsConfigError(t *testing.T) {
	dir := t.TempDir()
	_, err := execCmd(t, "generate", "--output.path", filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected error with no --input")
	}
	if exitCodeFor(err) != 2 {
		t.Errorf("exitCodeFor(%v) = %d, want 2 (ConfigError)", err, exitCodeFor(err))
	}
}

func TestValidateReportsCounts(t *testing.T) {
	dir := t.TempDir()
	specPath := writeFixture(t, dir)

	stdout, err := execCmd(t, "validate", "--input", specPath)
	if err != nil {
		t.Fatalf("validate failed: %v\noutput: %s", err, stdout)
	}
	if !strings.Contains(stdout, "1 component") {
		t.Errorf("stdout should report one component, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1 path") {
		t.Errorf("stdout should report one path, got:\n%s", stdout)
	}
}

func TestConfigSetThenList(t *testing.T) {
	dir := t.TempDir()
	orig, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })

	if _, err := execCmd(t, "config", "set", "definitions.case", "snake_case"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	stdout, err := execCmd(t, "config", "list")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	if !strings.Contains(stdout, "snake_case") {
		t.Errorf("config list should show snake_case, got:\n%s", stdout)
	}
}

func TestExitCodeForMapsCoreErrorKinds(t *testing.T) {
	cases := []struct {
		kind core.Kind
		want int
	}{
		{core.KindConfigError, 2},
		{core.KindSpecError, 3},
		{core.KindRefNotFound, 4},
		{core.KindParseError, 5},
		{core.KindBroadcastError, 6},
		{core.KindEmissionError, 7},
	}
	for _, c := range cases {
		err := core.New(c.kind, fmt.Errorf("boom"))
		if got := exitCodeFor(err); got != c.want {
			t.Errorf("exitCodeFor(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
	if got := exitCodeFor(fmt.Errorf("plain")); got != 1 {
		t.Errorf("exitCodeFor(plain error) = %d, want 1", got)
	}
}

func TestDiffStatusReportsNewAndUnchanged(t *testing.T) {
	dir := t.TempDir()
	reg := fileregistry.New(dir)
	f := reg.CreateFile("schemas", "schemas.gen.ts", identifier.CasePascal, true)
	f.Add("const Pet = S.object({})")

	if got := diffStatus(f); !strings.HasPrefix(got, "+ ") {
		t.Errorf("diffStatus for a file with nothing on disk = %q, want new-file prefix", got)
	}

	if err := os.WriteFile(f.Path, []byte(renderFile(f)), 0o644); err != nil {
		t.Fatalf("writing rendered file: %v", err)
	}
	if got := diffStatus(f); !strings.HasPrefix(got, "= ") {
		t.Errorf("diffStatus for an up-to-date file = %q, want unchanged prefix", got)
	}
}
