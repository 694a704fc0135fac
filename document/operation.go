package document

import "github.com/erraggy/oascompose/internal/pathutil"

// ParameterLocation is where a parameter is carried.
type ParameterLocation string

// Parameter locations.
const (
	InPath   ParameterLocation = "path"
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InCookie ParameterLocation = "cookie"
)

// Valid reports whether l is a known location.
func (l ParameterLocation) Valid() bool {
	switch l {
	case InPath, InQuery, InHeader, InCookie:
		return true
	default:
		return false
	}
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Deprecated  bool
	Schema      *Schema
	Example     any
}

// MediaType is the body descriptor for one content type.
type MediaType struct {
	Schema  *Schema
	Example any
}

// RequestBody is an operation's request body.
type RequestBody struct {
	Description string
	Required    bool
	// Content maps content type (e.g. "application/json") to its descriptor.
	Content map[string]*MediaType
}

// Response is the outcome for one status code.
// When Ref is set the response is a "#/components/responses/{name}"
// reference and the other fields are ignored.
type Response struct {
	Ref         string
	Description string
	Content     map[string]*MediaType
	Headers     map[string]*Parameter
}

// NewResponseRef returns a response referring to the reusable response name.
func NewResponseRef(name string) *Response {
	return &Response{Ref: pathutil.ResponseRef(name)}
}

// SecurityRequirement maps security scheme names to required scopes.
type SecurityRequirement map[string][]string

// OperationEntry is one (path, method) operation.
type OperationEntry struct {
	Path   string
	Method HTTPMethod

	OperationID string
	Summary     string
	Description string
	Deprecated  bool

	// Tags is an ordered set.
	Tags        []string
	Parameters  []*Parameter
	RequestBody *RequestBody
	// Responses maps a status code or "default" to its response.
	Responses map[string]*Response
	Security  []SecurityRequirement

	// Extensions holds x-* fields.
	Extensions map[string]any
}

// HasTag reports whether the operation carries tag.
func (o *OperationEntry) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTags appends tags not already present.
func (o *OperationEntry) AddTags(tags ...string) {
	for _, t := range tags {
		if t != "" && !o.HasTag(t) {
			o.Tags = append(o.Tags, t)
		}
	}
}

// Parameter returns the parameter with name in loc.
func (o *OperationEntry) Parameter(name string, loc ParameterLocation) (*Parameter, bool) {
	for _, p := range o.Parameters {
		if p.Name == name && p.In == loc {
			return p, true
		}
	}
	return nil, false
}
