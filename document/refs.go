package document

import (
	"github.com/erraggy/oascompose/internal/maputil"
	"github.com/erraggy/oascompose/internal/pathutil"
	"github.com/erraggy/oascompose/oaserrors"
)

// Reference kinds reported by [Reference.Kind].
const (
	RefKindSchema         = "schema"
	RefKindSecurityScheme = "securityScheme"
	RefKindResponse       = "response"
)

// Reference is one outgoing reference found in a document.
type Reference struct {
	// From is the dotted location holding the reference.
	From string
	// Ref is the reference string as written. Empty for security requirements.
	Ref string
	// Name is the referenced component name.
	Name string
	// Kind is RefKindSchema, RefKindResponse or RefKindSecurityScheme.
	Kind string
}

// WalkSchemaRefs calls fn for every $ref reachable inside s.
// loc is the location of s and is restored before returning.
func WalkSchemaRefs(s *Schema, loc *pathutil.Location, fn func(ref string, from string)) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		fn(s.Ref, loc.String())
	}
	for _, p := range s.Properties {
		loc.Push("properties")
		loc.Push(p.Name)
		WalkSchemaRefs(p.Schema, loc, fn)
		loc.Pop()
		loc.Pop()
	}
	if s.Items != nil {
		loc.Push("items")
		WalkSchemaRefs(s.Items, loc, fn)
		loc.Pop()
	}
	if s.AdditionalProperties != nil {
		loc.Push("additionalProperties")
		WalkSchemaRefs(s.AdditionalProperties, loc, fn)
		loc.Pop()
	}
	walkMembers := func(keyword string, members []*Schema) {
		for i, m := range members {
			loc.Push(keyword)
			loc.PushIndex(i)
			WalkSchemaRefs(m, loc, fn)
			loc.Pop()
			loc.Pop()
		}
	}
	walkMembers("oneOf", s.OneOf)
	walkMembers("allOf", s.AllOf)
	walkMembers("anyOf", s.AnyOf)
}

// References lists every schema, response and security scheme reference in
// d. Operations are visited first in insertion order, then component
// responses, then component schemas.
func (d *Document) References() []Reference {
	var refs []Reference
	loc := pathutil.Get()
	defer pathutil.Put(loc)

	addSchemaRef := func(ref, from string) {
		name, ok := pathutil.SchemaRefName(ref)
		if !ok {
			name = ref
		}
		refs = append(refs, Reference{From: from, Ref: ref, Name: name, Kind: RefKindSchema})
	}
	walkResponse := func(resp *Response) {
		if resp.Ref != "" {
			name, ok := pathutil.ResponseRefName(resp.Ref)
			if !ok {
				name = resp.Ref
			}
			refs = append(refs, Reference{From: loc.String(), Ref: resp.Ref, Name: name, Kind: RefKindResponse})
			return
		}
		walkContent(resp.Content, loc, addSchemaRef)
		for _, name := range maputil.SortedKeys(resp.Headers) {
			loc.Push("headers")
			loc.Push(name)
			if h := resp.Headers[name]; h != nil {
				WalkSchemaRefs(h.Schema, loc, addSchemaRef)
			}
			loc.Pop()
			loc.Pop()
		}
	}
	addSecurity := func(reqs []SecurityRequirement) {
		for i, req := range reqs {
			loc.Push("security")
			loc.PushIndex(i)
			for _, name := range maputil.SortedKeys(req) {
				refs = append(refs, Reference{From: loc.String(), Name: name, Kind: RefKindSecurityScheme})
			}
			loc.Pop()
			loc.Pop()
		}
	}

	for op := range d.Operations.Iterate(OrderInsertion) {
		loc.Reset()
		loc.Push("paths")
		loc.Push(op.Path)
		loc.Push(op.Method.Lower())
		for i, p := range op.Parameters {
			loc.Push("parameters")
			loc.PushIndex(i)
			WalkSchemaRefs(p.Schema, loc, addSchemaRef)
			loc.Pop()
			loc.Pop()
		}
		if op.RequestBody != nil {
			loc.Push("requestBody")
			walkContent(op.RequestBody.Content, loc, addSchemaRef)
			loc.Pop()
		}
		for _, code := range maputil.StatusCodes(op.Responses) {
			resp := op.Responses[code]
			if resp == nil {
				continue
			}
			loc.Push("responses")
			loc.Push(code)
			walkResponse(resp)
			loc.Pop()
			loc.Pop()
		}
		addSecurity(op.Security)
	}

	for name, resp := range d.Responses.All(OrderInsertion) {
		if resp == nil {
			continue
		}
		loc.Reset()
		loc.Push("components")
		loc.Push("responses")
		loc.Push(name)
		walkResponse(resp)
	}

	for name, s := range d.Schemas.All(OrderInsertion) {
		loc.Reset()
		loc.Push("components")
		loc.Push("schemas")
		loc.Push(name)
		WalkSchemaRefs(s, loc, addSchemaRef)
	}

	loc.Reset()
	addSecurity(d.Security)
	return refs
}

func walkContent(content map[string]*MediaType, loc *pathutil.Location, fn func(ref, from string)) {
	for _, ct := range maputil.SortedKeys(content) {
		mt := content[ct]
		if mt == nil {
			continue
		}
		loc.Push("content")
		loc.Push(ct)
		WalkSchemaRefs(mt.Schema, loc, fn)
		loc.Pop()
		loc.Pop()
	}
}

// DanglingReferences returns one error per reference that does not resolve
// in d, in the order References reports them.
func (d *Document) DanglingReferences() []*oaserrors.DanglingReferenceError {
	var dangling []*oaserrors.DanglingReferenceError
	for _, ref := range d.References() {
		var ok bool
		switch ref.Kind {
		case RefKindSecurityScheme:
			ok = d.SecuritySchemes.Has(ref.Name)
		case RefKindResponse:
			if _, local := pathutil.ResponseRefName(ref.Ref); local {
				ok = d.Responses.Has(ref.Name)
			}
		default:
			if _, local := pathutil.SchemaRefName(ref.Ref); local {
				ok = d.Schemas.Has(ref.Name)
			}
		}
		if !ok {
			dangling = append(dangling, &oaserrors.DanglingReferenceError{
				From:    ref.From,
				Ref:     ref.Ref,
				Missing: ref.Name,
				Kind:    ref.Kind,
			})
		}
	}
	return dangling
}

// ValidateReferences returns the first dangling reference, or nil.
func (d *Document) ValidateReferences() error {
	if dangling := d.DanglingReferences(); len(dangling) > 0 {
		return dangling[0]
	}
	return nil
}
