package refresolve

import "testing"

func TestResolve(t *testing.T) {
	root := map[string]interface{}{
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"Foo": map[string]interface{}{"type": "object"},
				"a/b": map[string]interface{}{"type": "string"},
				"c~d": map[string]interface{}{"type": "number"},
			},
		},
	}

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"simple", "#/components/schemas/Foo", "object"},
		{"escaped slash", "#/components/schemas/a~1b", "string"},
		{"escaped tilde", "#/components/schemas/c~0d", "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Resolve(tt.ref, root)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.ref, err)
			}
			m, ok := node.(map[string]interface{})
			if !ok {
				t.Fatalf("Resolve(%q) = %v, want map", tt.ref, node)
			}
			if m["type"] != tt.want {
				t.Errorf("Resolve(%q) type = %v, want %v", tt.ref, m["type"], tt.want)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	root := map[string]interface{}{"components": map[string]interface{}{}}
	_, err := Resolve("#/components/schemas/Missing", root)
	if err == nil {
		t.Fatal("expected error for missing segment")
	}
	var notFound *RefNotFound
	if !isRefNotFound(err, &notFound) {
		t.Fatalf("expected *RefNotFound, got %T: %v", err, err)
	}
	if notFound.Segment != "schemas" {
		t.Errorf("Segment = %q, want %q", notFound.Segment, "schemas")
	}
}

func isRefNotFound(err error, target **RefNotFound) bool {
	if rn, ok := err.(*RefNotFound); ok {
		*target = rn
		return true
	}
	return false
}

func TestLastSegment(t *testing.T) {
	if got := LastSegment("#/components/schemas/Foo"); got != "Foo" {
		t.Errorf("LastSegment = %q, want %q", got, "Foo")
	}
	if got := LastSegment("#/components/schemas/a~1b"); got != "a/b" {
		t.Errorf("LastSegment = %q, want %q", got, "a/b")
	}
}
