package document

import (
	"github.com/erraggy/oascompose/internal/pathutil"
	"github.com/erraggy/oascompose/oaserrors"
	"github.com/erraggy/oascompose/registry"
)

// Info is the document's metadata block.
type Info struct {
	Title          string
	Version        string
	Summary        string
	Description    string
	TermsOfService string
	Contact        *Contact
	License        *License
}

// IsZero reports whether no Info field is set.
func (i Info) IsZero() bool {
	return i.Title == "" && i.Version == "" && i.Summary == "" && i.Description == "" &&
		i.TermsOfService == "" && i.Contact == nil && i.License == nil
}

// Contact is the API contact information.
type Contact struct {
	Name  string
	URL   string
	Email string
}

// License is the API license information.
type License struct {
	Name       string
	Identifier string
	URL        string
}

// Server is a target host for the API.
type Server struct {
	URL         string
	Description string
}

// Tag groups operations.
type Tag struct {
	Name        string
	Description string
}

// Document is an OpenAPI document under construction.
// The zero value is an empty document mounted at "/".
//
// Concurrency: a Document is not safe for concurrent use. Use [Freeze] to
// obtain a read-only handle that can be shared across goroutines.
type Document struct {
	Info    Info
	Servers []Server
	// Operations is the path/operation table.
	Operations *Table
	// Schemas is the component schema registry.
	Schemas *registry.Registry[*Schema]
	// Tags are ordered and unique by name.
	Tags []Tag
	// Responses is the reusable response registry (components.responses).
	Responses *registry.Registry[*Response]
	// SecuritySchemes is the component security scheme registry.
	SecuritySchemes *registry.Registry[*SecurityScheme]
	// Security lists document-wide security requirements.
	Security []SecurityRequirement
	// Extensions holds document-level x-* fields.
	Extensions map[string]any
}

// New creates an empty document mounted at "/".
func New(info Info) *Document {
	return NewWithRoot(info, "/")
}

// NewWithRoot creates an empty document whose operations must live under root.
func NewWithRoot(info Info, root string) *Document {
	return &Document{
		Info:            info,
		Operations:      NewTable(root),
		Schemas:         NewSchemaRegistry(),
		Responses:       NewResponseRegistry(),
		SecuritySchemes: NewSecuritySchemeRegistry(),
	}
}

// NewSchemaRegistry returns an empty schema registry that reports
// *oaserrors.SchemaConflictError on conflicting re-registration.
func NewSchemaRegistry() *registry.Registry[*Schema] {
	return registry.New(EqualSchema, func(name string, first, second *Schema) error {
		return &oaserrors.SchemaConflictError{Name: name, First: first, Second: second}
	})
}

// NewSecuritySchemeRegistry returns an empty security scheme registry that
// reports *oaserrors.SecuritySchemeConflictError on conflicting re-registration.
func NewSecuritySchemeRegistry() *registry.Registry[*SecurityScheme] {
	return registry.New(EqualSecurityScheme, func(name string, first, second *SecurityScheme) error {
		return &oaserrors.SecuritySchemeConflictError{Name: name, First: first, Second: second}
	})
}

// NewResponseRegistry returns an empty reusable response registry that
// reports *oaserrors.ResponseConflictError on conflicting re-registration.
func NewResponseRegistry() *registry.Registry[*Response] {
	return registry.New(EqualResponse, func(name string, first, second *Response) error {
		return &oaserrors.ResponseConflictError{Name: name, First: first, Second: second}
	})
}

// checkComponentName rejects names that cannot appear in a
// "#/components/{kind}/{name}" reference.
func checkComponentName(option, name string) error {
	if name == "" {
		return &oaserrors.ConfigError{Option: option, Message: "must not be empty"}
	}
	if !pathutil.ValidComponentName(name) {
		return &oaserrors.ConfigError{Option: option, Value: name, Message: "may only contain letters, digits, '.', '_' and '-'"}
	}
	return nil
}

// RegisterSchema stores a copy of entry.Schema under entry.Name.
func (d *Document) RegisterSchema(entry SchemaEntry) error {
	if err := checkComponentName("schema name", entry.Name); err != nil {
		return err
	}
	if d.Schemas == nil {
		d.Schemas = NewSchemaRegistry()
	}
	return d.Schemas.Register(entry.Name, CopySchema(entry.Schema))
}

// RegisterResponse stores a copy of resp under name in components.responses.
func (d *Document) RegisterResponse(name string, resp *Response) error {
	if err := checkComponentName("response name", name); err != nil {
		return err
	}
	if resp == nil {
		return &oaserrors.ConfigError{Option: "response", Value: name, Message: "must not be nil"}
	}
	if d.Responses == nil {
		d.Responses = NewResponseRegistry()
	}
	return d.Responses.Register(name, copyResponse(resp))
}

// RegisterSecurityScheme stores a copy of scheme under name.
func (d *Document) RegisterSecurityScheme(name string, scheme *SecurityScheme) error {
	if err := checkComponentName("security scheme name", name); err != nil {
		return err
	}
	if d.SecuritySchemes == nil {
		d.SecuritySchemes = NewSecuritySchemeRegistry()
	}
	return d.SecuritySchemes.Register(name, copySecurityScheme(scheme))
}

// AddOperation inserts op into the operation table.
func (d *Document) AddOperation(op *OperationEntry, policy DuplicatePolicy) error {
	if d.Operations == nil {
		d.Operations = NewTable("/")
	}
	_, err := d.Operations.Insert(op, policy)
	return err
}

// Tag returns the tag with the given name.
func (d *Document) Tag(name string) (Tag, bool) {
	for _, t := range d.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// AddTag merges tag into the tag list. An existing tag with an empty
// description takes the incoming description. It reports false when both
// descriptions are non-empty and differ; the existing one is kept.
func (d *Document) AddTag(tag Tag) bool {
	for i, t := range d.Tags {
		if t.Name != tag.Name {
			continue
		}
		if t.Description == "" {
			d.Tags[i].Description = tag.Description
			return true
		}
		return tag.Description == "" || tag.Description == t.Description
	}
	d.Tags = append(d.Tags, tag)
	return true
}

// Stats summarizes the document's size.
type Stats struct {
	PathCount           int
	OperationCount      int
	SchemaCount         int
	ResponseCount       int
	SecuritySchemeCount int
	TagCount            int
}

// Stats returns counts of the document's contents.
func (d *Document) Stats() Stats {
	return Stats{
		PathCount:           len(d.Operations.Paths(OrderInsertion)),
		OperationCount:      d.Operations.Len(),
		SchemaCount:         d.Schemas.Len(),
		ResponseCount:       d.Responses.Len(),
		SecuritySchemeCount: d.SecuritySchemes.Len(),
		TagCount:            len(d.Tags),
	}
}
