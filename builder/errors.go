package builder

import (
	"fmt"
	"strings"

	"github.com/erraggy/oascompose/oaserrors"
)

// ComponentType identifies the type of component where an error occurred.
type ComponentType string

const (
	// ComponentOperation indicates an error in an operation definition.
	ComponentOperation ComponentType = "operation"
	// ComponentParameter indicates an error in a parameter definition.
	ComponentParameter ComponentType = "parameter"
	// ComponentSchema indicates an error in a schema definition.
	ComponentSchema ComponentType = "schema"
	// ComponentResponse indicates an error in a reusable response.
	ComponentResponse ComponentType = "response"
	// ComponentSecurityScheme indicates an error in a security scheme.
	ComponentSecurityScheme ComponentType = "security_scheme"
)

// operationLocation tracks where an operationID was first defined.
type operationLocation struct {
	Method string
	Path   string
}

func (ol operationLocation) String() string {
	return ol.Method + " " + ol.Path
}

// BuilderError describes a problem found while declaring a document.
// Errors accumulate on the Builder and are returned together by Build.
type BuilderError struct {
	// Component is the type of component where the error occurred.
	Component ComponentType
	// Method is the HTTP method (for operation errors).
	Method string
	// Path is the path template (for operation errors) or component name.
	Path string
	// OperationID is the operation identifier (if applicable).
	OperationID string
	// Message describes the error.
	Message string
	// FirstOccurrence tracks where a duplicate was first defined.
	FirstOccurrence *operationLocation
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *BuilderError) Error() string {
	var sb strings.Builder
	sb.WriteString("builder")
	if e.Component != "" {
		sb.WriteString(": ")
		sb.WriteString(string(e.Component))
	}
	switch {
	case e.Method != "" && e.Path != "":
		sb.WriteString(" " + e.Method + " " + e.Path)
	case e.Path != "":
		sb.WriteString(" " + e.Path)
	}
	if e.OperationID != "" {
		sb.WriteString(" [operationId: " + e.OperationID + "]")
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	if e.FirstOccurrence != nil {
		sb.WriteString(" (first defined at " + e.FirstOccurrence.String() + ")")
	}
	if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As support. A schema
// conflict therefore still matches oaserrors.ErrSchemaConflict.
func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Builder errors without a more specific cause are configuration errors.
func (e *BuilderError) Is(target error) bool {
	return target == oaserrors.ErrConfig && e.Cause == nil
}

// NewDuplicateOperationIDError creates an error for duplicate operation IDs.
func NewDuplicateOperationIDError(operationID, method, path string, first *operationLocation) *BuilderError {
	return &BuilderError{
		Component:       ComponentOperation,
		Method:          method,
		Path:            path,
		OperationID:     operationID,
		Message:         fmt.Sprintf("duplicate operationId %q", operationID),
		FirstOccurrence: first,
	}
}

// NewPathParamError reports a mismatch between a path template and its
// declared path parameters.
func NewPathParamError(method, path, param, message string) *BuilderError {
	return &BuilderError{
		Component: ComponentParameter,
		Method:    method,
		Path:      path,
		Message:   fmt.Sprintf("path parameter %q %s", param, message),
	}
}
