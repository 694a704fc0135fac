package builder

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oascompose/document"
)

// parseJSONTag parses a struct field's json tag into its name and options.
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

// isFieldRequired determines if a struct field is required:
//  1. oas:"required=true" or oas:"required=false" wins
//  2. pointer fields are optional
//  3. other fields are required unless tagged omitempty or omitzero
func isFieldRequired(field reflect.StructField, jsonOpts []string) bool {
	if val, ok := parseOASTag(field.Tag.Get("oas"))["required"]; ok {
		return val == "true"
	}
	if field.Type.Kind() == reflect.Pointer {
		return false
	}
	return !slices.Contains(jsonOpts, "omitempty") && !slices.Contains(jsonOpts, "omitzero")
}

// parseOASTag parses the oas struct tag into key/value pairs.
// Example: oas:"description=User ID,minLength=1,deprecated"
func parseOASTag(tag string) map[string]string {
	result := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx > 0 {
			result[strings.TrimSpace(part[:idx])] = strings.TrimSpace(part[idx+1:])
		} else {
			result[part] = "true"
		}
	}
	return result
}

// applyOASTag returns a copy of schema with the oas tag options applied.
// Options on a reference schema are limited to those that may sit beside a
// $ref (description and nullable).
func applyOASTag(schema *document.Schema, tag string) *document.Schema {
	opts := parseOASTag(tag)
	if len(opts) == 0 {
		return schema
	}

	result := document.CopySchema(schema)
	for key, value := range opts {
		if result.Ref != "" && key != "description" && key != "nullable" {
			continue
		}
		switch key {
		case "description":
			result.Description = value
		case "title":
			result.Title = value
		case "format":
			result.Format = value
		case "pattern":
			result.Pattern = value
		case "enum":
			values := strings.Split(value, "|")
			result.Enum = make([]any, len(values))
			for i, v := range values {
				result.Enum[i] = parseTypedValue(strings.TrimSpace(v), result.Type)
			}
		case "minimum":
			result.Minimum = parseFloat(value)
		case "maximum":
			result.Maximum = parseFloat(value)
		case "minLength":
			result.MinLength = parseInt(value)
		case "maxLength":
			result.MaxLength = parseInt(value)
		case "minItems":
			result.MinItems = parseInt(value)
		case "maxItems":
			result.MaxItems = parseInt(value)
		case "readOnly":
			result.ReadOnly = value == "true"
		case "writeOnly":
			result.WriteOnly = value == "true"
		case "nullable":
			result.Nullable = value == "true"
		case "deprecated":
			result.Deprecated = value == "true"
		case "example":
			result.Example = parseTypedValue(value, result.Type)
		case "default":
			result.Default = parseTypedValue(value, result.Type)
		}
	}
	return result
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// parseTypedValue converts a tag value to the schema's type, falling back
// to the raw string.
func parseTypedValue(value, schemaType string) any {
	switch schemaType {
	case "integer":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int(n)
		}
	case "number":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return value
}
