// Package oaserrors provides structured error types for the oascompose library.
//
// Import path: github.com/erraggy/oascompose/oaserrors
//
// Every failure the assembler can report is returned, never panicked, and
// names the conflicting identifiers so a build step can print it verbatim.
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrSchemaConflict]: Matches any [SchemaConflictError]
//   - [ErrSecuritySchemeConflict]: Matches any [SecuritySchemeConflictError]
//   - [ErrResponseConflict]: Matches any [ResponseConflictError]
//   - [ErrDanglingReference]: Matches any [DanglingReferenceError]
//   - [ErrInvalidPath]: Matches any [InvalidPathError]
//   - [ErrDuplicateOperation]: Matches any [DuplicateOperationError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrValidation]: Matches any [ValidationError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	_, err := joiner.Join(base, fragment)
//	if errors.Is(err, oaserrors.ErrDanglingReference) {
//	    // a fragment forgot to register a schema
//	}
//
// Extract error details with errors.As():
//
//	var dup *oaserrors.DuplicateOperationError
//	if errors.As(err, &dup) {
//	    fmt.Printf("%s %s declared twice\n", dup.Method, dup.Path)
//	}
package oaserrors
