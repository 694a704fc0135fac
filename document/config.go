package document

import (
	"fmt"
	"strings"

	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/registry"
)

// OASVersion is the OpenAPI major.minor version targeted by serialization.
type OASVersion string

const (
	// Version30 emits OpenAPI 3.0.3 documents.
	Version30 OASVersion = "3.0"
	// Version31 emits OpenAPI 3.1.0 documents.
	Version31 OASVersion = "3.1"
)

// Full returns the patch-level version string written to the "openapi" field.
func (v OASVersion) Full() string {
	switch v {
	case Version30:
		return "3.0.3"
	case Version31:
		return "3.1.0"
	default:
		return string(v)
	}
}

// String returns the major.minor form.
func (v OASVersion) String() string {
	return string(v)
}

// ValidVersions returns all supported version strings.
func ValidVersions() []string {
	return []string{string(Version30), string(Version31)}
}

// ParseVersion accepts "3.0", "3.1" or any full 3.0.x / 3.1.x version string.
func ParseVersion(s string) (OASVersion, error) {
	v := strings.TrimSpace(s)
	switch {
	case v == "3.0" || strings.HasPrefix(v, "3.0."):
		return Version30, nil
	case v == "3.1" || strings.HasPrefix(v, "3.1."):
		return Version31, nil
	default:
		return "", &oaserrors.ConfigError{
			Option:  "openapi version",
			Value:   s,
			Message: "supported versions are " + strings.Join(ValidVersions(), ", "),
		}
	}
}

// Order controls iteration and serialization order of names.
type Order = registry.Order

const (
	// OrderInsertion preserves first-registration order.
	OrderInsertion = registry.Insertion
	// OrderLexicographic sorts by name.
	OrderLexicographic = registry.Lexicographic
)

// Config carries the serialization choices for an assembled document.
// It is passed explicitly to the assembler and the serializer.
type Config struct {
	// OpenAPIVersion selects 3.0 or 3.1 output conventions.
	OpenAPIVersion OASVersion
	// PropertyOrder orders object properties and component names.
	PropertyOrder Order
	// PathOrder orders path templates.
	PathOrder Order
}

// DefaultConfig returns OpenAPI 3.1 with insertion ordering everywhere.
func DefaultConfig() Config {
	return Config{
		OpenAPIVersion: Version31,
		PropertyOrder:  OrderInsertion,
		PathOrder:      OrderInsertion,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.OpenAPIVersion != Version30 && c.OpenAPIVersion != Version31 {
		return &oaserrors.ConfigError{Option: "openapi version", Value: string(c.OpenAPIVersion),
			Message: "supported versions are " + strings.Join(ValidVersions(), ", ")}
	}
	orders := []struct {
		option string
		order  Order
	}{
		{"property order", c.PropertyOrder},
		{"path order", c.PathOrder},
	}
	for _, o := range orders {
		if o.order != OrderInsertion && o.order != OrderLexicographic {
			return &oaserrors.ConfigError{Option: o.option, Value: string(o.order),
				Message: fmt.Sprintf("must be %q or %q", OrderInsertion, OrderLexicographic)}
		}
	}
	return nil
}
