package pathutil

import "strings"

// Component reference prefixes.
const (
	RefPrefixSchemas         = "#/components/schemas/"
	RefPrefixSecuritySchemes = "#/components/securitySchemes/"
	RefPrefixResponses       = "#/components/responses/"
)

// ValidComponentName reports whether name matches the key pattern OpenAPI
// allows under components: ^[a-zA-Z0-9._-]+$.
func ValidComponentName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// SchemaRef builds "#/components/schemas/{name}".
func SchemaRef(name string) string {
	return RefPrefixSchemas + name
}

// SecuritySchemeRef builds "#/components/securitySchemes/{name}".
func SecuritySchemeRef(name string) string {
	return RefPrefixSecuritySchemes + name
}

// ResponseRef builds "#/components/responses/{name}".
func ResponseRef(name string) string {
	return RefPrefixResponses + name
}

// ResponseRefName extracts the response name from a local response reference.
func ResponseRefName(ref string) (string, bool) {
	return componentRefName(ref, RefPrefixResponses)
}

// SchemaRefName extracts the schema name from a local schema reference.
// It reports false for references that do not point into components.schemas.
func SchemaRefName(ref string) (string, bool) {
	return componentRefName(ref, RefPrefixSchemas)
}

func componentRefName(ref, prefix string) (string, bool) {
	name, ok := strings.CutPrefix(ref, prefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
