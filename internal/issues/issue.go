// Package issues provides the issue type reported by the validator.
package issues

import (
	"fmt"
	"strings"

	"github.com/erraggy/oascompose/internal/severity"
)

// Issue represents a single problem found in a serialized document.
type Issue struct {
	// Path is the dotted path to the problematic element (e.g., "components.schemas.Pet")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Checker names the check that reported the issue, e.g. "openapi3" or "jsonschema"
	Checker string
	// SpecRef is the URL of the relevant section of the OpenAPI Specification (optional)
	SpecRef string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	path := i.Path
	if path == "" {
		path = "(document)"
	}
	result := fmt.Sprintf("%s %s: %s", symbol, path, i.Message)
	if i.SpecRef != "" {
		result += fmt.Sprintf("\n    Spec: %s", i.SpecRef)
	}
	return result
}

// PointerToPath converts a JSON pointer such as "/paths/~1pets/get" into the
// dotted form used by Issue.Path ("paths./pets.get").
func PointerToPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "#")
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	tokens := strings.Split(pointer, "/")
	for i, tok := range tokens {
		tokens[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
	}
	return strings.Join(tokens, ".")
}

// EscapePointerToken escapes one JSON pointer reference token.
func EscapePointerToken(tok string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(tok)
}

// Count returns the number of issues at sev.
func Count(list []Issue, sev severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity == sev {
			n++
		}
	}
	return n
}
