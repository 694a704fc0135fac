// Package severity provides the severity levels shared by validation
// issues and join warnings.
//
// Levels are ordered from least to most severe: Info < Warning < Error.
// The zero value is SeverityError so an issue built without an explicit
// level still fails validation.
package severity

import (
	"fmt"
	"strings"
)

// Severity indicates how serious a reported issue is.
type Severity int

const (
	// SeverityError makes a document invalid.
	SeverityError Severity = iota

	// SeverityWarning does not block output but should be addressed, for
	// example an operation replaced under the overwrite policy.
	SeverityWarning

	// SeverityInfo records a choice made while composing, such as a merged
	// operation or a deduplicated schema.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Rank orders severities from least (0) to most severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Parse converts a level name into a Severity.
func Parse(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityError, fmt.Errorf("severity: unknown level %q", s)
	}
}

// MarshalText encodes the level name, so reports render "warning" rather
// than an integer in JSON and YAML.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a level name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
