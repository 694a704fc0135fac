package builder

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/erraggy/oascompose/document"
)

// builderLogger is used when no logger is configured.
var builderLogger = slog.Default()

// Builder declares a document fragment in code: schemas derived from Go
// types, operations, tags and security schemes. Problems are collected as
// they happen and returned together by Build, so declarations can be
// chained.
//
// Concurrency: Builder instances are not safe for concurrent use.
type Builder struct {
	doc    *document.Document
	cache  *schemaCache
	namer  *schemaNamer
	logger *slog.Logger

	operationIDs map[string]operationLocation
	errors       []error
}

// New creates a Builder for a document with the given info.
//
//	b := builder.New(document.Info{Title: "Pets", Version: "1.0.0"})
//	b.AddOperation(document.MethodGet, "/pets/{id}",
//	    builder.WithPathParam("id", int64(0)),
//	    builder.WithResponse(200, Pet{}),
//	)
//	doc, err := b.Build()
func New(info document.Info, opts ...BuilderOption) *Builder {
	cfg := defaultBuilderConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = builderLogger
	}
	return &Builder{
		doc:   document.NewWithRoot(info, cfg.mountRoot),
		cache: newSchemaCache(),
		namer: &schemaNamer{
			strategy: cfg.namingStrategy,
			generic:  cfg.genericNaming,
			fn:       cfg.namingFunc,
		},
		logger:       logger,
		operationIDs: make(map[string]operationLocation),
	}
}

// SetDescription sets the info description.
func (b *Builder) SetDescription(desc string) *Builder {
	b.doc.Info.Description = desc
	return b
}

// SetContact sets the info contact.
func (b *Builder) SetContact(contact document.Contact) *Builder {
	b.doc.Info.Contact = &contact
	return b
}

// SetLicense sets the info license.
func (b *Builder) SetLicense(license document.License) *Builder {
	b.doc.Info.License = &license
	return b
}

// AddServer appends a server unless it is already listed.
func (b *Builder) AddServer(url, description string) *Builder {
	s := document.Server{URL: url, Description: description}
	for _, existing := range b.doc.Servers {
		if existing == s {
			return b
		}
	}
	b.doc.Servers = append(b.doc.Servers, s)
	return b
}

// AddTag declares a tag. A later empty description never clears an
// earlier one.
func (b *Builder) AddTag(name, description string) *Builder {
	b.doc.AddTag(document.Tag{Name: name, Description: description})
	return b
}

// AddSecurityScheme registers a security scheme component.
func (b *Builder) AddSecurityScheme(name string, scheme *document.SecurityScheme) *Builder {
	if err := b.doc.RegisterSecurityScheme(name, scheme); err != nil {
		b.errors = append(b.errors, &BuilderError{Component: ComponentSecurityScheme, Path: name, Cause: err})
	}
	return b
}

// AddSecurity appends a document-wide security requirement.
func (b *Builder) AddSecurity(requirements ...document.SecurityRequirement) *Builder {
	b.doc.Security = append(b.doc.Security, requirements...)
	return b
}

// AddSchema registers an explicit schema under name.
func (b *Builder) AddSchema(name string, schema *document.Schema) *Builder {
	b.addSchema(name, schema)
	return b
}

func (b *Builder) addSchema(name string, schema *document.Schema) {
	if err := b.doc.RegisterSchema(document.SchemaEntry{Name: name, Schema: schema}); err != nil {
		b.errors = append(b.errors, &BuilderError{Component: ComponentSchema, Path: name, Cause: err})
		return
	}
	b.logger.Debug("registered schema", "name", name)
}

// RegisterType derives a schema from v's type and returns the schema to use
// at reference sites. Named structs are registered as components and come
// back as references; other types are returned inline.
func (b *Builder) RegisterType(v any) *document.Schema {
	return b.schemaFor(v)
}

// RegisterTypeAs registers v's type under an explicit component name and
// returns a reference to it.
func (b *Builder) RegisterTypeAs(name string, v any) *document.Schema {
	if v == nil {
		b.addSchema(name, &document.Schema{})
		return document.NewRef(name)
	}
	if s, ok := v.(*document.Schema); ok {
		b.addSchema(name, s)
		return document.NewRef(name)
	}
	ref := b.schemaFromType(reflect.TypeOf(v), name)
	if ref.Ref == "" {
		// not a struct: register the inline schema under the name
		b.addSchema(name, ref)
		return document.NewRef(name)
	}
	return ref
}

// Errors returns the problems recorded so far.
func (b *Builder) Errors() []error {
	return b.errors
}

// Build returns a copy of the declared document. Recorded problems are
// returned joined, and a reference to an unregistered schema is reported as
// *oaserrors.DanglingReferenceError.
func (b *Builder) Build() (*document.Document, error) {
	doc, err := b.BuildFragment()
	if err != nil {
		return nil, err
	}
	if err := doc.ValidateReferences(); err != nil {
		return nil, err
	}
	return doc, nil
}

// BuildFragment is Build without the reference check, for fragments whose
// schemas are registered by another fragment of the same join.
func (b *Builder) BuildFragment() (*document.Document, error) {
	if len(b.errors) > 0 {
		return nil, errors.Join(b.errors...)
	}
	return b.doc.Clone(), nil
}
