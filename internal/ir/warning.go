package ir

import "fmt"

// Warning represents a non-fatal issue found while parsing or transforming
// a spec — the strictness-off recovery path of spec.md §7.
type Warning struct {
	Message string
	Ref     string // optional: the $ref or path this warning concerns
}

func (w Warning) String() string {
	if w.Ref != "" {
		return fmt.Sprintf("%s: %s", w.Ref, w.Message)
	}
	return w.Message
}
