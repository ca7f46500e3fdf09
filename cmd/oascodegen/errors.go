package main

import (
	"errors"

	"github.com/roberthamel/oascodegen/internal/core"
)

// exitCodeFor maps a core.Error's Kind to a distinct process exit code
// (spec.md §6 "reported to the external CLI for exit-code mapping") so
// scripted callers can distinguish failure classes without parsing stderr.
func exitCodeFor(err error) int {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		return 1
	}
	switch coreErr.Kind {
	case core.KindConfigError:
		return 2
	case core.KindSpecError:
		return 3
	case core.KindRefNotFound:
		return 4
	case core.KindParseError:
		return 5
	case core.KindBroadcastError:
		return 6
	case core.KindEmissionError:
		return 7
	default:
		return 1
	}
}
