package config

import (
	"os"
	"testing"
)

func TestResolveAppliesDefaultsWithNoOverrides(t *testing.T) {
	l := New(t.TempDir())
	cfg := l.Resolve()
	if cfg.OutputPath != "./generated" {
		t.Errorf("OutputPath = %q, want ./generated", cfg.OutputPath)
	}
	if cfg.EnumsMode != "inline" {
		t.Errorf("EnumsMode = %q, want inline", cfg.EnumsMode)
	}
}

func TestEnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("OASCODEGEN_OUTPUT_PATH", "/tmp/out")
	l := New(t.TempDir())
	cfg := l.Resolve()
	if cfg.OutputPath != "/tmp/out" {
		t.Errorf("OutputPath = %q, want /tmp/out", cfg.OutputPath)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	l := New(t.TempDir())
	if err := l.Set("not.a.real.key", "x"); err == nil {
		t.Fatal("expected error for unrecognized key")
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	l := New(t.TempDir())
	if err := l.Set("definitions.case", "snake_case"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := l.Get("definitions.case"); got != "snake_case" {
		t.Errorf("Get = %v, want snake_case", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	l := New(t.TempDir())
	_ = l.Set("comments", false)
	l.Reset()
	if got := l.Get("comments"); got != true {
		t.Errorf("Get(comments) after Reset = %v, want true", got)
	}
}

func TestSetPersistsAcrossLoaderInstances(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	if err := first.Set("definitions.case", "snake_case"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := New(dir)
	if got := second.Get("definitions.case"); got != "snake_case" {
		t.Errorf("a fresh Loader over the same directory should see the persisted value, got %v", got)
	}
}

func TestResetRemovesPersistedFile(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	_ = first.Set("definitions.case", "snake_case")
	first.Reset()

	second := New(dir)
	if got := second.Get("definitions.case"); got != "PascalCase" {
		t.Errorf("Reset should remove the persisted override, got %v", got)
	}
}

func TestConfigFileIsHonoredWhenFlagsAndEnvAbsent(t *testing.T) {
	dir := t.TempDir()
	content := []byte("output:\n  path: from-file\n")
	if err := os.WriteFile(dir+"/.oascodegen.yaml", content, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	l := New(dir)
	if got := l.Get("output.path"); got != "from-file" {
		t.Errorf("Get(output.path) = %v, want from-file", got)
	}
}
