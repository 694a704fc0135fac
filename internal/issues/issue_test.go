package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oascompose/internal/severity"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "error",
			issue: Issue{Path: "paths./pets.get", Message: "missing responses", Severity: severity.SeverityError},
			want:  "✗ paths./pets.get: missing responses",
		},
		{
			name:  "unknown level",
			issue: Issue{Path: "components.schemas.Pet", Message: "cannot compile", Severity: severity.Severity(7)},
			want:  "? components.schemas.Pet: cannot compile",
		},
		{
			name:  "warning",
			issue: Issue{Path: "info.version", Message: "empty", Severity: severity.SeverityWarning},
			want:  "⚠ info.version: empty",
		},
		{
			name:  "info without path",
			issue: Issue{Message: "detected 3.1", Severity: severity.SeverityInfo},
			want:  "ℹ (document): detected 3.1",
		},
		{
			name: "spec ref",
			issue: Issue{
				Path: "info", Message: "bad", Severity: severity.SeverityError,
				SpecRef: "https://spec.openapis.org/oas/v3.1.0#info-object",
			},
			want: "✗ info: bad\n    Spec: https://spec.openapis.org/oas/v3.1.0#info-object",
		},
		{
			name:  "unknown severity",
			issue: Issue{Path: "x", Message: "y", Severity: severity.Severity(99)},
			want:  "? x: y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.issue.String())
		})
	}
}

func TestPointerToPath(t *testing.T) {
	assert.Equal(t, "paths./pets/{id}.get", PointerToPath("/paths/~1pets~1{id}/get"))
	assert.Equal(t, "components.schemas.a~b", PointerToPath("#/components/schemas/a~0b"))
	assert.Equal(t, "", PointerToPath("#"))
	assert.Equal(t, "", PointerToPath(""))
}

func TestEscapePointerToken(t *testing.T) {
	assert.Equal(t, "~1pets~1{id}", EscapePointerToken("/pets/{id}"))
	assert.Equal(t, "a~0b", EscapePointerToken("a~b"))
	assert.Equal(t, "/pets/{id}", PointerToPath("/"+EscapePointerToken("/pets/{id}")))
}

func TestCount(t *testing.T) {
	list := []Issue{
		{Severity: severity.SeverityError},
		{Severity: severity.SeverityWarning},
		{Severity: severity.SeverityError},
	}
	assert.Equal(t, 2, Count(list, severity.SeverityError))
	assert.Equal(t, 1, Count(list, severity.SeverityWarning))
	assert.Equal(t, 0, Count(nil, severity.SeverityInfo))
}
