package document

import (
	"maps"
	"slices"
)

// CopySchema returns a deep copy of s.
// Free-form values (Enum, Default, Example) are copied shallowly; they are
// treated as immutable once set.
func CopySchema(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Required = slices.Clone(s.Required)
	if s.Properties != nil {
		c.Properties = make([]Property, len(s.Properties))
		for i, p := range s.Properties {
			c.Properties[i] = Property{Name: p.Name, Schema: CopySchema(p.Schema)}
		}
	}
	c.Items = CopySchema(s.Items)
	c.AdditionalProperties = CopySchema(s.AdditionalProperties)
	c.OneOf = copySchemas(s.OneOf)
	c.AllOf = copySchemas(s.AllOf)
	c.AnyOf = copySchemas(s.AnyOf)
	c.Enum = slices.Clone(s.Enum)
	c.Minimum = copyPtr(s.Minimum)
	c.Maximum = copyPtr(s.Maximum)
	c.MinLength = copyPtr(s.MinLength)
	c.MaxLength = copyPtr(s.MaxLength)
	c.MinItems = copyPtr(s.MinItems)
	c.MaxItems = copyPtr(s.MaxItems)
	return &c
}

func copySchemas(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = CopySchema(s)
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CopyOperation returns a deep copy of op.
func CopyOperation(op *OperationEntry) *OperationEntry {
	if op == nil {
		return nil
	}
	c := *op
	c.Tags = slices.Clone(op.Tags)
	if op.Parameters != nil {
		c.Parameters = make([]*Parameter, len(op.Parameters))
		for i, p := range op.Parameters {
			c.Parameters[i] = copyParameter(p)
		}
	}
	if op.RequestBody != nil {
		rb := *op.RequestBody
		rb.Content = copyContent(op.RequestBody.Content)
		c.RequestBody = &rb
	}
	if op.Responses != nil {
		c.Responses = make(map[string]*Response, len(op.Responses))
		for code, r := range op.Responses {
			c.Responses[code] = copyResponse(r)
		}
	}
	if op.Security != nil {
		c.Security = make([]SecurityRequirement, len(op.Security))
		for i, req := range op.Security {
			c.Security[i] = copySecurityRequirement(req)
		}
	}
	c.Extensions = maps.Clone(op.Extensions)
	return &c
}

func copyParameter(p *Parameter) *Parameter {
	if p == nil {
		return nil
	}
	c := *p
	c.Schema = CopySchema(p.Schema)
	return &c
}

// CopyResponse returns a deep copy of r.
func CopyResponse(r *Response) *Response {
	return copyResponse(r)
}

func copyResponse(r *Response) *Response {
	if r == nil {
		return nil
	}
	c := *r
	c.Content = copyContent(r.Content)
	if r.Headers != nil {
		c.Headers = make(map[string]*Parameter, len(r.Headers))
		for name, h := range r.Headers {
			c.Headers[name] = copyParameter(h)
		}
	}
	return &c
}

func copyContent(content map[string]*MediaType) map[string]*MediaType {
	if content == nil {
		return nil
	}
	c := make(map[string]*MediaType, len(content))
	for ct, mt := range content {
		if mt == nil {
			c[ct] = nil
			continue
		}
		c[ct] = &MediaType{Schema: CopySchema(mt.Schema), Example: mt.Example}
	}
	return c
}

func copySecurityRequirement(req SecurityRequirement) SecurityRequirement {
	if req == nil {
		return nil
	}
	c := make(SecurityRequirement, len(req))
	for name, scopes := range req {
		c[name] = slices.Clone(scopes)
	}
	return c
}

func copySecurityScheme(s *SecurityScheme) *SecurityScheme {
	if s == nil {
		return nil
	}
	c := *s
	if s.Flows != nil {
		f := OAuthFlows{
			Implicit:          copyFlow(s.Flows.Implicit),
			Password:          copyFlow(s.Flows.Password),
			ClientCredentials: copyFlow(s.Flows.ClientCredentials),
			AuthorizationCode: copyFlow(s.Flows.AuthorizationCode),
		}
		c.Flows = &f
	}
	return &c
}

func copyFlow(f *OAuthFlow) *OAuthFlow {
	if f == nil {
		return nil
	}
	c := *f
	c.Scopes = maps.Clone(f.Scopes)
	return &c
}

// Clone returns a deep copy of d. Mutating the copy never affects d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{
		Info:            copyInfo(d.Info),
		Servers:         slices.Clone(d.Servers),
		Operations: d.Operations.Clone(),
		Tags:       slices.Clone(d.Tags),
		Extensions: maps.Clone(d.Extensions),
	}
	c.Schemas = NewSchemaRegistry()
	if d.Schemas != nil {
		c.Schemas = d.Schemas.Clone(CopySchema)
	}
	c.Responses = NewResponseRegistry()
	if d.Responses != nil {
		c.Responses = d.Responses.Clone(CopyResponse)
	}
	c.SecuritySchemes = NewSecuritySchemeRegistry()
	if d.SecuritySchemes != nil {
		c.SecuritySchemes = d.SecuritySchemes.Clone(copySecurityScheme)
	}
	if d.Security != nil {
		c.Security = make([]SecurityRequirement, len(d.Security))
		for i, req := range d.Security {
			c.Security[i] = copySecurityRequirement(req)
		}
	}
	return c
}

func copyInfo(i Info) Info {
	c := i
	c.Contact = copyPtr(i.Contact)
	c.License = copyPtr(i.License)
	return c
}
