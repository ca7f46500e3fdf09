// Package refresolve resolves JSON Pointer $ref strings (RFC 6901) within
// a raw, already-deserialized spec document (spec.md §4.A).
//
// It does not detect cycles; the schema emitter maintains its own
// traversal stack for that (spec.md §4.A, §4.I).
package refresolve

import (
	"fmt"
	"strconv"
	"strings"
)

// RefNotFound is returned when a $ref segment cannot be located.
type RefNotFound struct {
	Ref     string
	Segment string
}

func (e *RefNotFound) Error() string {
	return fmt.Sprintf("$ref %q: segment %q not found", e.Ref, e.Segment)
}

// Resolve walks ref (e.g. "#/components/schemas/Foo") against root and
// returns the node at the pointer path. root is the raw, untyped document
// — typically map[string]interface{} / []interface{} as produced by a YAML
// or JSON unmarshal into interface{}.
func Resolve(ref string, root interface{}) (interface{}, error) {
	path, err := split(ref)
	if err != nil {
		return nil, err
	}

	node := root
	for _, seg := range path {
		next, ok := step(node, seg)
		if !ok {
			return nil, &RefNotFound{Ref: ref, Segment: seg}
		}
		node = next
	}
	return node, nil
}

// split validates the "#/" prefix and decodes each pointer segment per
// RFC 6901 (~1 -> /, ~0 -> ~, in that order).
func split(ref string) ([]string, error) {
	if ref == "#" || ref == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("refresolve: unsupported ref %q (only in-document \"#/...\" pointers are resolved here)", ref)
	}
	raw := strings.Split(ref[2:], "/")
	decoded := make([]string, len(raw))
	for i, s := range raw {
		decoded[i] = decodeSegment(s)
	}
	return decoded, nil
}

func decodeSegment(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	s = strings.ReplaceAll(s, "~0", "~")
	return s
}

func step(node interface{}, seg string) (interface{}, bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		n, ok := v[seg]
		return n, ok
	case map[interface{}]interface{}:
		n, ok := v[seg]
		return n, ok
	case []interface{}:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	default:
		return nil, false
	}
}

// LastSegment returns the final path component of a $ref, used by the
// identifier service to derive a base name (e.g. "Foo" from
// "#/components/schemas/Foo").
func LastSegment(ref string) string {
	parts := strings.Split(ref, "/")
	return decodeSegment(parts[len(parts)-1])
}
