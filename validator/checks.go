package validator

import (
	"fmt"
	"strings"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/maputil"
)

// checkRequired31 reports missing required top-level fields. Schema
// compilation does not look at these.
func checkRequired31(raw map[string]any, result *ValidationResult) {
	info, ok := raw["info"].(map[string]any)
	if !ok {
		result.add(ValidationError{Path: "info", Message: "info object is required", Severity: SeverityError, Checker: checkerDocument})
	} else {
		for _, field := range []string{"title", "version"} {
			if s, _ := info[field].(string); s == "" {
				result.add(ValidationError{
					Path:     "info." + field,
					Message:  field + " is required",
					Severity: SeverityError,
					Checker:  checkerDocument,
				})
			}
		}
	}
	_, hasPaths := raw["paths"]
	_, hasComponents := raw["components"]
	_, hasWebhooks := raw["webhooks"]
	if !hasPaths && !hasComponents && !hasWebhooks {
		result.add(ValidationError{
			Message:  "at least one of paths, components or webhooks is required",
			Severity: SeverityError,
			Checker:  checkerDocument,
		})
	}
}

// checkOperationIDs reports operationIds shared by more than one operation.
func checkOperationIDs(raw map[string]any, result *ValidationResult) {
	seen := make(map[string]string)
	paths, _ := raw["paths"].(map[string]any)
	for _, path := range maputil.SortedKeys(paths) {
		item, _ := paths[path].(map[string]any)
		for _, method := range document.Methods() {
			op, ok := item[method.Lower()].(map[string]any)
			if !ok {
				continue
			}
			id, _ := op["operationId"].(string)
			if id == "" {
				continue
			}
			here := string(method) + " " + path
			if first, dup := seen[id]; dup {
				result.add(ValidationError{
					Path:     "paths." + path + "." + method.Lower() + ".operationId",
					Message:  fmt.Sprintf("operationId %q is also used by %s", id, first),
					Severity: SeverityError,
					Checker:  checkerDocument,
				})
				continue
			}
			seen[id] = here
		}
	}
}

// checkDeclaredTags warns about operation tags missing from the top-level
// tags list.
func checkDeclaredTags(raw map[string]any, result *ValidationResult) {
	declared := make(map[string]bool)
	tags, _ := raw["tags"].([]any)
	for _, t := range tags {
		if m, ok := t.(map[string]any); ok {
			if name, ok := m["name"].(string); ok {
				declared[name] = true
			}
		}
	}
	if len(declared) == 0 {
		return
	}
	paths, _ := raw["paths"].(map[string]any)
	for _, path := range maputil.SortedKeys(paths) {
		item, _ := paths[path].(map[string]any)
		for _, method := range document.Methods() {
			op, ok := item[method.Lower()].(map[string]any)
			if !ok {
				continue
			}
			opTags, _ := op["tags"].([]any)
			for _, t := range opTags {
				name, _ := t.(string)
				if name != "" && !declared[name] {
					result.add(ValidationError{
						Path:     "paths." + path + "." + method.Lower() + ".tags",
						Message:  fmt.Sprintf("tag %q is not declared in the top-level tags", name),
						Severity: SeverityWarning,
						Checker:  checkerDocument,
					})
				}
			}
		}
	}
}

// checkResponseRefs reports operation responses whose $ref does not name an
// entry of components.responses.
func checkResponseRefs(raw map[string]any, result *ValidationResult) {
	components, _ := raw["components"].(map[string]any)
	declared, _ := components["responses"].(map[string]any)
	paths, _ := raw["paths"].(map[string]any)
	for _, path := range maputil.SortedKeys(paths) {
		item, _ := paths[path].(map[string]any)
		for _, method := range document.Methods() {
			op, ok := item[method.Lower()].(map[string]any)
			if !ok {
				continue
			}
			responses, _ := op["responses"].(map[string]any)
			for _, code := range maputil.StatusCodes(responses) {
				resp, _ := responses[code].(map[string]any)
				ref, _ := resp["$ref"].(string)
				if ref == "" {
					continue
				}
				name, ok := strings.CutPrefix(ref, "#/components/responses/")
				if _, found := declared[name]; ok && found {
					continue
				}
				result.add(ValidationError{
					Path:     "paths." + path + "." + method.Lower() + ".responses." + code,
					Message:  fmt.Sprintf("response reference %q does not resolve", ref),
					Severity: SeverityError,
					Checker:  checkerDocument,
				})
			}
		}
	}
}
