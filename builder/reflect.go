package builder

import (
	"encoding/json"
	"reflect"
	"slices"
	"time"

	"github.com/erraggy/oascompose/document"
)

// SchemaProvider is implemented by types that describe their own schema.
// The returned schema is registered under the type's name instead of the
// reflected one.
type SchemaProvider interface {
	OpenAPISchema() *document.Schema
}

var (
	schemaProviderType = reflect.TypeFor[SchemaProvider]()
	timeType           = reflect.TypeFor[time.Time]()
	rawMessageType     = reflect.TypeFor[json.RawMessage]()
)

// schemaCache remembers which component name each struct type was
// registered under, and which types are being generated right now so that
// recursive types turn into references.
type schemaCache struct {
	nameByType map[reflect.Type]string
	typeByName map[string]reflect.Type
	inProgress map[reflect.Type]string
}

func newSchemaCache() *schemaCache {
	return &schemaCache{
		nameByType: make(map[reflect.Type]string),
		typeByName: make(map[string]reflect.Type),
		inProgress: make(map[reflect.Type]string),
	}
}

// schemaFor converts a Go value's type to a schema. Named struct types and
// SchemaProvider implementations are registered as components and returned
// as references.
func (b *Builder) schemaFor(v any) *document.Schema {
	if v == nil {
		return &document.Schema{}
	}
	if s, ok := v.(*document.Schema); ok {
		return document.CopySchema(s)
	}
	return b.schemaFromType(reflect.TypeOf(v), "")
}

func (b *Builder) schemaFromType(t reflect.Type, nameOverride string) *document.Schema {
	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}

	schema := b.schemaFromValueType(t, nameOverride)
	if nullable {
		schema.Nullable = true
	}
	return schema
}

func (b *Builder) schemaFromValueType(t reflect.Type, nameOverride string) *document.Schema {
	if s := specialTypeSchema(t); s != nil {
		return s
	}
	if t.Implements(schemaProviderType) || reflect.PointerTo(t).Implements(schemaProviderType) {
		return b.componentRef(t, nameOverride, func() *document.Schema {
			return reflect.New(t).Interface().(SchemaProvider).OpenAPISchema()
		})
	}

	switch t.Kind() {
	case reflect.Struct:
		if t.Name() == "" && nameOverride == "" {
			return b.structSchema(t)
		}
		return b.componentRef(t, nameOverride, func() *document.Schema { return b.structSchema(t) })
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return document.NewPrimitive("string", "byte")
		}
		return document.NewArray(b.schemaFromType(t.Elem(), ""))
	case reflect.Map:
		return &document.Schema{Type: "object", AdditionalProperties: b.schemaFromType(t.Elem(), "")}
	default:
		return primitiveSchema(t)
	}
}

// componentRef registers the schema built by gen under the type's name
// (once per type) and returns a reference to it.
func (b *Builder) componentRef(t reflect.Type, nameOverride string, gen func() *document.Schema) *document.Schema {
	if name, ok := b.cache.inProgress[t]; ok {
		return document.NewRef(name)
	}
	if name, ok := b.cache.nameByType[t]; ok && nameOverride == "" {
		return document.NewRef(name)
	}

	name := nameOverride
	if name == "" {
		name = b.namer.name(t)
		if existing, ok := b.cache.typeByName[name]; ok && existing != t {
			name = b.namer.qualifiedName(t)
		}
	}

	b.cache.inProgress[t] = name
	schema := gen()
	delete(b.cache.inProgress, t)

	b.cache.nameByType[t] = name
	b.cache.typeByName[name] = t
	b.addSchema(name, schema)
	return document.NewRef(name)
}

func specialTypeSchema(t reflect.Type) *document.Schema {
	switch {
	case t == timeType:
		return document.NewPrimitive("string", "date-time")
	case t == rawMessageType:
		return &document.Schema{}
	case t.Name() == "UUID" && t.Kind() == reflect.Array && t.Len() == 16:
		return document.NewPrimitive("string", "uuid")
	}
	return nil
}

// structSchema reflects on a struct type. Properties keep field order;
// embedded structs contribute their properties inline.
func (b *Builder) structSchema(t reflect.Type) *document.Schema {
	schema := document.NewObject()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() && !field.Anonymous {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, jsonOpts := parseJSONTag(jsonTag)

		if field.Anonymous && name == "" {
			b.inlineEmbedded(schema, field.Type)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}

		fieldSchema := b.schemaFromType(field.Type, "")
		if tag := field.Tag.Get("oas"); tag != "" {
			fieldSchema = applyOASTag(fieldSchema, tag)
		}
		if _, exists := schema.Property(name); exists {
			continue
		}
		schema.WithProperty(name, fieldSchema, isFieldRequired(field, jsonOpts))
	}
	return schema
}

func (b *Builder) inlineEmbedded(schema *document.Schema, t reflect.Type) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	embedded := b.structSchema(t)
	for _, p := range embedded.Properties {
		if _, exists := schema.Property(p.Name); exists {
			continue
		}
		schema.WithProperty(p.Name, p.Schema, slices.Contains(embedded.Required, p.Name))
	}
}

func primitiveSchema(t reflect.Type) *document.Schema {
	switch t.Kind() {
	case reflect.String:
		return document.NewPrimitive("string", "")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return document.NewPrimitive("integer", "int32")
	case reflect.Int64, reflect.Uint64:
		return document.NewPrimitive("integer", "int64")
	case reflect.Float32:
		return document.NewPrimitive("number", "float")
	case reflect.Float64:
		return document.NewPrimitive("number", "double")
	case reflect.Bool:
		return document.NewPrimitive("boolean", "")
	default:
		// interfaces and anything unrepresentable accept any value
		return &document.Schema{}
	}
}
