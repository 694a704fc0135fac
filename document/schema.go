package document

import (
	"github.com/erraggy/oascompose/internal/pathutil"
)

// SchemaKind classifies a schema definition.
type SchemaKind int

const (
	// KindPrimitive is a scalar type such as string or integer.
	KindPrimitive SchemaKind = iota
	// KindObject has named properties.
	KindObject
	// KindArray has an items schema.
	KindArray
	// KindComposition combines other schemas with oneOf, allOf or anyOf.
	KindComposition
	// KindRef points at a registered component schema.
	KindRef
)

// String returns the kind name.
func (k SchemaKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindComposition:
		return "composition"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Schema is a version-neutral schema definition.
// Nullability is a flag here; the serializer renders it per OpenAPI version.
type Schema struct {
	// Ref is a local reference such as "#/components/schemas/User".
	// When set, the schema is a pure reference and other structural fields are ignored
	// (Nullable and Description still apply).
	Ref string

	Type        string
	Format      string
	Title       string
	Description string

	// Properties are kept in declaration order.
	Properties           []Property
	Required             []string
	AdditionalProperties *Schema

	Items *Schema

	OneOf []*Schema
	AllOf []*Schema
	AnyOf []*Schema

	Enum    []any
	Default any
	Example any

	Nullable   bool
	Deprecated bool
	ReadOnly   bool
	WriteOnly  bool

	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int
	Pattern   string
}

// Property is a named object property.
type Property struct {
	Name   string
	Schema *Schema
}

// SchemaEntry is a named, registrable schema.
type SchemaEntry struct {
	Name   string
	Schema *Schema
}

// NewRef returns a schema referencing the named component.
func NewRef(name string) *Schema {
	return &Schema{Ref: pathutil.SchemaRef(name)}
}

// NewPrimitive returns a scalar schema.
func NewPrimitive(typ, format string) *Schema {
	return &Schema{Type: typ, Format: format}
}

// NewArray returns an array schema with the given items.
func NewArray(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// NewObject returns an empty object schema.
func NewObject() *Schema {
	return &Schema{Type: "object"}
}

// NewOneOf returns a composition accepting exactly one of members.
func NewOneOf(members ...*Schema) *Schema {
	return &Schema{OneOf: members}
}

// NewAllOf returns a composition requiring all members.
func NewAllOf(members ...*Schema) *Schema {
	return &Schema{AllOf: members}
}

// WithProperty appends a property and returns s for chaining.
func (s *Schema) WithProperty(name string, schema *Schema, required bool) *Schema {
	s.Properties = append(s.Properties, Property{Name: name, Schema: schema})
	if required {
		s.Required = append(s.Required, name)
	}
	return s
}

// AsNullable marks s nullable and returns it.
func (s *Schema) AsNullable() *Schema {
	s.Nullable = true
	return s
}

// Kind classifies the schema.
func (s *Schema) Kind() SchemaKind {
	switch {
	case s.Ref != "":
		return KindRef
	case len(s.OneOf) > 0 || len(s.AllOf) > 0 || len(s.AnyOf) > 0:
		return KindComposition
	case s.Type == "array":
		return KindArray
	case s.Type == "object" || len(s.Properties) > 0:
		return KindObject
	default:
		return KindPrimitive
	}
}

// RefName returns the component name of a reference schema.
func (s *Schema) RefName() (string, bool) {
	if s == nil || s.Ref == "" {
		return "", false
	}
	return pathutil.SchemaRefName(s.Ref)
}

// Property returns the named property schema.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// IsRequired reports whether name is listed as required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
