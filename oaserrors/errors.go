// Package oaserrors provides structured error types for oascompose.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of assembly failures.
//
// # Error Categories
//
//   - SchemaConflictError: same schema name registered with different definitions
//   - SecuritySchemeConflictError: same security scheme name with different definitions
//   - ResponseConflictError: same reusable response name with different definitions
//   - DanglingReferenceError: a reference that does not resolve after assembly
//   - InvalidPathError: malformed path template or path outside the mount root
//   - DuplicateOperationError: (path, method) inserted twice under the reject policy
//   - ParseError: YAML/JSON decoding failures
//   - ValidationError: serialized output rejected by a validator
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	doc, err := joiner.Join(base, users, billing)
//	if err != nil {
//	    var conflict *oaserrors.SchemaConflictError
//	    if errors.As(err, &conflict) {
//	        fmt.Println("conflicting schema:", conflict.Name)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSchemaConflict indicates a schema name was registered with two different definitions.
	ErrSchemaConflict = errors.New("schema conflict")

	// ErrSecuritySchemeConflict indicates a security scheme name was registered with two different definitions.
	ErrSecuritySchemeConflict = errors.New("security scheme conflict")

	// ErrResponseConflict indicates a reusable response name was registered with two different definitions.
	ErrResponseConflict = errors.New("response conflict")

	// ErrDanglingReference indicates a reference that does not resolve in the assembled document.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrInvalidPath indicates a malformed path template.
	ErrInvalidPath = errors.New("invalid path")

	// ErrDuplicateOperation indicates a (path, method) pair was inserted twice.
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrValidation indicates the serialized document failed validation.
	ErrValidation = errors.New("validation error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SchemaConflictError is returned when a schema name is registered twice
// with structurally different definitions. The registry keeps First.
type SchemaConflictError struct {
	// Name is the contested schema name
	Name string
	// First is the definition already registered
	First any
	// Second is the rejected definition
	Second any
	// Source identifies the fragment that supplied Second (may be empty)
	Source string
}

// Error returns a human-readable error message.
func (e *SchemaConflictError) Error() string {
	msg := fmt.Sprintf("schema conflict: %q registered with two different definitions", e.Name)
	if e.Source != "" {
		msg += " (from " + e.Source + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SchemaConflictError) Is(target error) bool {
	return target == ErrSchemaConflict
}

// SecuritySchemeConflictError is returned when a security scheme name is
// registered twice with different definitions.
type SecuritySchemeConflictError struct {
	// Name is the contested security scheme name
	Name string
	// First is the definition already registered
	First any
	// Second is the rejected definition
	Second any
	// Source identifies the fragment that supplied Second (may be empty)
	Source string
}

// Error returns a human-readable error message.
func (e *SecuritySchemeConflictError) Error() string {
	msg := fmt.Sprintf("security scheme conflict: %q registered with two different definitions", e.Name)
	if e.Source != "" {
		msg += " (from " + e.Source + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SecuritySchemeConflictError) Is(target error) bool {
	return target == ErrSecuritySchemeConflict
}

// ResponseConflictError is returned when a reusable response name under
// components.responses is registered twice with different definitions.
type ResponseConflictError struct {
	Name   string
	First  any
	Second any
	Source string
}

func (e *ResponseConflictError) Error() string {
	msg := fmt.Sprintf("response conflict: %q registered with two different definitions", e.Name)
	if e.Source != "" {
		msg += " (from " + e.Source + ")"
	}
	return msg
}

// Is reports whether target is ErrResponseConflict.
func (e *ResponseConflictError) Is(target error) bool {
	return target == ErrResponseConflict
}

// DanglingReferenceError represents a reference that does not resolve.
type DanglingReferenceError struct {
	// From is where the reference was found (e.g. "paths./users.get.responses.200"
	// or "components.schemas.Order.properties.customer")
	From string
	// Ref is the reference string as written (e.g. "#/components/schemas/Customer")
	Ref string
	// Missing is the name that could not be resolved
	Missing string
	// Kind is "schema", "response" or "securityScheme"
	Kind string
}

// Error returns a human-readable error message.
func (e *DanglingReferenceError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "schema"
	}
	msg := fmt.Sprintf("dangling reference: %s %q is not registered", kind, e.Missing)
	if e.From != "" {
		msg += " (referenced from " + e.From + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// InvalidPathError represents a malformed path template.
type InvalidPathError struct {
	// Path is the offending path template
	Path string
	// Reason describes what is wrong with it
	Reason string
}

// Error returns a human-readable error message.
func (e *InvalidPathError) Error() string {
	msg := fmt.Sprintf("invalid path %q", e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// DuplicateOperationError is returned by the reject duplicate policy.
type DuplicateOperationError struct {
	Path   string
	Method string
}

// Error returns a human-readable error message.
func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("duplicate operation: %s %s already registered", e.Method, e.Path)
}

// Is reports whether target matches this error type.
func (e *DuplicateOperationError) Is(target error) bool {
	return target == ErrDuplicateOperation
}

// ParseError represents a failure to parse an OpenAPI document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ValidationError represents a rejection of serialized output by a validator.
type ValidationError struct {
	// Path is the JSON path to the problematic field (e.g., "components.schemas.User")
	Path string
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
