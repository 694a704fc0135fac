package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/issues"
	"github.com/erraggy/oascompose/internal/severity"
	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/serializer"
)

// validatorLogger is used when no logger is configured.
var validatorLogger = slog.Default()

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a violation that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a problem that does not invalidate the document
	SeverityWarning = severity.SeverityWarning
)

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

const (
	checkerOpenAPI3   = "openapi3"
	checkerJSONSchema = "jsonschema"
	checkerDocument   = "document"
)

// ValidationResult contains the results of validating a serialized document.
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// Version is the raw "openapi" field of the document
	Version string
	// OASVersion is the version family the document was checked against
	OASVersion document.OASVersion
	// Errors contains all validation errors
	Errors []ValidationError
	// Warnings contains all validation warnings
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// SchemaCount is the number of schemas compiled (3.1 only)
	SchemaCount int
	// Duration is the time spent validating
	Duration time.Duration
}

// Err returns nil for a valid result, or an *oaserrors.ValidationError
// describing the first error.
func (r *ValidationResult) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	msg := first.Message
	if n := len(r.Errors) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return &oaserrors.ValidationError{Path: first.Path, Message: msg}
}

func (r *ValidationResult) add(issue ValidationError) {
	if issue.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, issue)
		return
	}
	r.Errors = append(r.Errors, issue)
}

// Validator checks serialized documents: OpenAPI 3.0 documents with the
// kin-openapi loader and validator, OpenAPI 3.1 documents by compiling
// every schema with a JSON Schema 2020-12 compiler.
type Validator struct {
	// IncludeWarnings determines whether warnings are reported
	IncludeWarnings bool
	// Version is the expected version family. Empty means use the
	// document's "openapi" field.
	Version document.OASVersion
	// Logger receives debug output. Nil uses the package logger.
	Logger *slog.Logger
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{IncludeWarnings: true}
}

func (v *Validator) log() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return validatorLogger
}

// Validate checks data, a JSON or YAML document, against version. An empty
// version is taken from the document. The returned error is reserved for
// input that cannot be examined at all; conformance problems are reported
// in the result.
func Validate(ctx context.Context, data []byte, version document.OASVersion) (*ValidationResult, error) {
	v := New()
	v.Version = version
	return v.ValidateBytes(ctx, data)
}

// ValidateDocument serializes doc with cfg and validates the output.
func ValidateDocument(ctx context.Context, doc *document.Document, cfg document.Config) (*ValidationResult, error) {
	return New().ValidateDocument(ctx, doc, cfg)
}

// ValidateDocument serializes doc with cfg and validates the output.
func (v *Validator) ValidateDocument(ctx context.Context, doc *document.Document, cfg document.Config) (*ValidationResult, error) {
	data, err := serializer.MarshalJSON(doc, cfg)
	if err != nil {
		return nil, err
	}
	checked := *v
	checked.Version = cfg.OpenAPIVersion
	return checked.ValidateBytes(ctx, data)
}

// ValidateBytes checks data, a JSON or YAML document.
func (v *Validator) ValidateBytes(ctx context.Context, data []byte) (*ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	raw, jsonData, err := decodeRaw(data)
	if err != nil {
		return nil, err
	}
	result := &ValidationResult{}
	declared, _ := raw["openapi"].(string)
	result.Version = declared

	version := v.Version
	detected, verr := document.ParseVersion(declared)
	switch {
	case version == "" && verr != nil:
		return nil, &oaserrors.ParseError{Message: fmt.Sprintf("cannot determine OpenAPI version from %q", declared), Cause: verr}
	case version == "":
		version = detected
	case verr != nil || detected != version:
		result.add(ValidationError{
			Path:     "openapi",
			Message:  fmt.Sprintf("document declares openapi %q, expected %s", declared, version.Full()),
			Severity: SeverityError,
			Checker:  checkerDocument,
		})
	}
	result.OASVersion = version

	switch version {
	case document.Version30:
		err = v.validate30(ctx, data, result)
	case document.Version31:
		err = v.validate31(ctx, raw, jsonData, result)
	default:
		return nil, &oaserrors.ConfigError{Option: "version", Value: string(version), Message: "unsupported OpenAPI version"}
	}
	if err != nil {
		return nil, err
	}
	checkDeclaredTags(raw, result)

	if !v.IncludeWarnings {
		result.Warnings = nil
	}
	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0
	result.Duration = time.Since(start)

	v.log().Debug("validated document",
		"version", result.Version,
		"valid", result.Valid,
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"schemas", result.SchemaCount,
	)
	return result, nil
}

// decodeRaw decodes a JSON or YAML document into generic values and
// returns its JSON encoding.
func decodeRaw(data []byte) (map[string]any, []byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, &oaserrors.ParseError{Message: "empty document"}
	}
	var decoded any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return nil, nil, &oaserrors.ParseError{Message: "invalid YAML or JSON", Cause: err}
	}
	raw, ok := normalizeKeys(decoded).(map[string]any)
	if !ok {
		return nil, nil, &oaserrors.ParseError{Message: "document is not an object"}
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, &oaserrors.ParseError{Message: "document is not representable as JSON", Cause: err}
	}
	return raw, jsonData, nil
}

// normalizeKeys turns YAML mappings with non-string keys, such as unquoted
// status codes, into string-keyed maps.
func normalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeKeys(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalizeKeys(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalizeKeys(e)
		}
		return t
	default:
		return v
	}
}
