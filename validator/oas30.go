package validator

import (
	"context"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// validate30 loads data with the kin-openapi loader, which resolves every
// local $ref, and runs its structural validation.
func (v *Validator) validate30(ctx context.Context, data []byte, result *ValidationResult) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		result.add(kinIssue(err))
		return nil
	}
	if doc.Components != nil {
		result.SchemaCount = len(doc.Components.Schemas)
	}

	if err := doc.Validate(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var multi openapi3.MultiError
		if errors.As(err, &multi) {
			for _, e := range multi {
				result.add(kinIssue(e))
			}
			return nil
		}
		result.add(kinIssue(err))
	}
	return nil
}

// kinIssue converts a kin-openapi error. Its messages nest as
// "invalid <section>: ..."; the outermost section becomes the path.
func kinIssue(err error) ValidationError {
	msg := err.Error()
	path := ""
	if rest, ok := strings.CutPrefix(msg, "invalid "); ok {
		if section, _, found := strings.Cut(rest, ":"); found && !strings.Contains(section, " ") {
			path = section
		}
	}
	return ValidationError{
		Path:     path,
		Message:  msg,
		Severity: SeverityError,
		Checker:  checkerOpenAPI3,
	}
}
