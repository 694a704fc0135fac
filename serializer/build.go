package serializer

import (
	"fmt"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/maputil"
)

type builder struct {
	cfg document.Config
}

func (b *builder) is31() bool {
	return b.cfg.OpenAPIVersion == document.Version31
}

// BuildNode renders doc as an ordered mapping node.
func BuildNode(doc *document.Document, cfg document.Config) (*yaml.Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &builder{cfg: cfg}

	root := newMapping()
	root.set("openapi", strNode(cfg.OpenAPIVersion.Full()))
	root.set("info", b.info(doc.Info))

	if len(doc.Servers) > 0 {
		servers := seqNode()
		for _, s := range doc.Servers {
			m := newMapping()
			m.str("url", s.URL)
			m.str("description", s.Description)
			servers.Content = append(servers.Content, m.node)
		}
		root.set("servers", servers)
	}

	paths, err := b.paths(doc.Operations)
	if err != nil {
		return nil, err
	}
	root.set("paths", paths)

	components, err := b.components(doc)
	if err != nil {
		return nil, err
	}
	if !components.empty() {
		root.set("components", components.node)
	}

	if len(doc.Security) > 0 {
		root.set("security", securityNode(doc.Security))
	}

	if len(doc.Tags) > 0 {
		tags := seqNode()
		for _, t := range doc.Tags {
			m := newMapping()
			m.str("name", t.Name)
			m.str("description", t.Description)
			tags.Content = append(tags.Content, m.node)
		}
		root.set("tags", tags)
	}

	if err := setExtensions(root, doc.Extensions); err != nil {
		return nil, err
	}
	return root.node, nil
}

func (b *builder) info(info document.Info) *yaml.Node {
	m := newMapping()
	m.set("title", strNode(info.Title))
	if b.is31() {
		m.str("summary", info.Summary)
	}
	m.str("description", info.Description)
	m.str("termsOfService", info.TermsOfService)
	if c := info.Contact; c != nil {
		cm := newMapping()
		cm.str("name", c.Name)
		cm.str("url", c.URL)
		cm.str("email", c.Email)
		m.set("contact", cm.node)
	}
	if l := info.License; l != nil {
		lm := newMapping()
		lm.set("name", strNode(l.Name))
		if b.is31() {
			lm.str("identifier", l.Identifier)
		}
		lm.str("url", l.URL)
		m.set("license", lm.node)
	}
	m.set("version", strNode(info.Version))
	return m.node
}

func (b *builder) paths(table *document.Table) (*yaml.Node, error) {
	paths := newMapping()
	for _, path := range table.Paths(b.cfg.PathOrder) {
		item := newMapping()
		for _, method := range table.Methods(path) {
			op, _ := table.Get(path, method)
			opNode, err := b.operation(op)
			if err != nil {
				return nil, err
			}
			item.set(method.Lower(), opNode)
		}
		paths.set(path, item.node)
	}
	return paths.node, nil
}

func (b *builder) operation(op *document.OperationEntry) (*yaml.Node, error) {
	m := newMapping()
	if len(op.Tags) > 0 {
		m.set("tags", strSeq(op.Tags))
	}
	m.str("summary", op.Summary)
	m.str("description", op.Description)
	m.str("operationId", op.OperationID)

	if len(op.Parameters) > 0 {
		params := seqNode()
		for _, p := range op.Parameters {
			pn, err := b.parameter(p)
			if err != nil {
				return nil, err
			}
			params.Content = append(params.Content, pn)
		}
		m.set("parameters", params)
	}

	if rb := op.RequestBody; rb != nil {
		rm := newMapping()
		rm.str("description", rb.Description)
		content, err := b.content(rb.Content)
		if err != nil {
			return nil, err
		}
		rm.set("content", content)
		rm.boolTrue("required", rb.Required)
		m.set("requestBody", rm.node)
	}

	responses := newMapping()
	for _, code := range maputil.StatusCodes(op.Responses) {
		resp := op.Responses[code]
		if resp == nil {
			continue
		}
		rn, err := b.response(resp)
		if err != nil {
			return nil, err
		}
		responses.set(code, rn)
	}
	m.set("responses", responses.node)

	m.boolTrue("deprecated", op.Deprecated)
	if len(op.Security) > 0 {
		m.set("security", securityNode(op.Security))
	}
	if err := setExtensions(m, op.Extensions); err != nil {
		return nil, err
	}
	return m.node, nil
}

func (b *builder) parameter(p *document.Parameter) (*yaml.Node, error) {
	m := newMapping()
	m.set("name", strNode(p.Name))
	m.set("in", strNode(string(p.In)))
	m.str("description", p.Description)
	m.boolTrue("required", p.Required || p.In == document.InPath)
	m.boolTrue("deprecated", p.Deprecated)
	if p.Schema != nil {
		sn, err := b.schema(p.Schema)
		if err != nil {
			return nil, err
		}
		m.set("schema", sn)
	}
	if p.Example != nil {
		ex, err := valueToNode(p.Example)
		if err != nil {
			return nil, err
		}
		m.set("example", ex)
	}
	return m.node, nil
}

func (b *builder) response(r *document.Response) (*yaml.Node, error) {
	m := newMapping()
	if r.Ref != "" {
		m.set("$ref", strNode(r.Ref))
		return m.node, nil
	}
	m.set("description", strNode(r.Description))
	if len(r.Headers) > 0 {
		headers := newMapping()
		for _, name := range maputil.SortedKeys(r.Headers) {
			h := r.Headers[name]
			hm := newMapping()
			hm.str("description", h.Description)
			hm.boolTrue("required", h.Required)
			hm.boolTrue("deprecated", h.Deprecated)
			if h.Schema != nil {
				sn, err := b.schema(h.Schema)
				if err != nil {
					return nil, err
				}
				hm.set("schema", sn)
			}
			headers.set(name, hm.node)
		}
		m.set("headers", headers.node)
	}
	if len(r.Content) > 0 {
		content, err := b.content(r.Content)
		if err != nil {
			return nil, err
		}
		m.set("content", content)
	}
	return m.node, nil
}

func (b *builder) content(content map[string]*document.MediaType) (*yaml.Node, error) {
	m := newMapping()
	for _, ct := range maputil.SortedKeys(content) {
		mt := content[ct]
		mm := newMapping()
		if mt != nil {
			if mt.Schema != nil {
				sn, err := b.schema(mt.Schema)
				if err != nil {
					return nil, err
				}
				mm.set("schema", sn)
			}
			if mt.Example != nil {
				ex, err := valueToNode(mt.Example)
				if err != nil {
					return nil, err
				}
				mm.set("example", ex)
			}
		}
		m.set(ct, mm.node)
	}
	return m.node, nil
}

func (b *builder) components(doc *document.Document) (*mapping, error) {
	c := newMapping()
	if doc.Schemas.Len() > 0 {
		schemas := newMapping()
		for name, s := range doc.Schemas.All(b.cfg.PropertyOrder) {
			sn, err := b.schema(s)
			if err != nil {
				return nil, fmt.Errorf("components.schemas.%s: %w", name, err)
			}
			schemas.set(name, sn)
		}
		c.set("schemas", schemas.node)
	}
	if doc.Responses.Len() > 0 {
		responses := newMapping()
		for name, r := range doc.Responses.All(b.cfg.PropertyOrder) {
			rn, err := b.response(r)
			if err != nil {
				return nil, fmt.Errorf("components.responses.%s: %w", name, err)
			}
			responses.set(name, rn)
		}
		c.set("responses", responses.node)
	}
	if doc.SecuritySchemes.Len() > 0 {
		schemes := newMapping()
		for name, s := range doc.SecuritySchemes.All(b.cfg.PropertyOrder) {
			schemes.set(name, securitySchemeNode(s))
		}
		c.set("securitySchemes", schemes.node)
	}
	return c, nil
}

func securitySchemeNode(s *document.SecurityScheme) *yaml.Node {
	m := newMapping()
	m.set("type", strNode(s.Type))
	m.str("description", s.Description)
	m.str("name", s.Name)
	m.str("in", s.In)
	m.str("scheme", s.Scheme)
	m.str("bearerFormat", s.BearerFormat)
	if f := s.Flows; f != nil {
		fm := newMapping()
		fm.set("implicit", flowNode(f.Implicit))
		fm.set("password", flowNode(f.Password))
		fm.set("clientCredentials", flowNode(f.ClientCredentials))
		fm.set("authorizationCode", flowNode(f.AuthorizationCode))
		m.set("flows", fm.node)
	}
	m.str("openIdConnectUrl", s.OpenIDConnectURL)
	return m.node
}

func flowNode(f *document.OAuthFlow) *yaml.Node {
	if f == nil {
		return nil
	}
	m := newMapping()
	m.str("authorizationUrl", f.AuthorizationURL)
	m.str("tokenUrl", f.TokenURL)
	m.str("refreshUrl", f.RefreshURL)
	scopes := newMapping()
	for _, name := range maputil.SortedKeys(f.Scopes) {
		scopes.set(name, strNode(f.Scopes[name]))
	}
	m.set("scopes", scopes.node)
	return m.node
}

func securityNode(reqs []document.SecurityRequirement) *yaml.Node {
	seq := seqNode()
	for _, req := range reqs {
		m := newMapping()
		for _, name := range maputil.SortedKeys(req) {
			scopes := req[name]
			if scopes == nil {
				scopes = []string{}
			}
			m.set(name, strSeq(scopes))
		}
		seq.Content = append(seq.Content, m.node)
	}
	return seq
}

func setExtensions(m *mapping, ext map[string]any) error {
	for _, key := range maputil.SortedKeys(ext) {
		if !strings.HasPrefix(key, "x-") {
			continue
		}
		v, err := valueToNode(ext[key])
		if err != nil {
			return err
		}
		m.set(key, v)
	}
	return nil
}

// schema renders s, applying the version's nullable convention.
func (b *builder) schema(s *document.Schema) (*yaml.Node, error) {
	if s.Ref != "" {
		return b.refSchema(s), nil
	}

	m := newMapping()
	m.str("title", s.Title)
	m.str("description", s.Description)

	nullable := s.Nullable
	composition := len(s.OneOf) > 0 || len(s.AllOf) > 0 || len(s.AnyOf) > 0
	switch {
	case s.Type != "" && nullable && b.is31():
		m.set("type", strSeq([]string{s.Type, "null"}))
	case s.Type != "":
		m.set("type", strNode(s.Type))
	}
	m.str("format", s.Format)
	if nullable && !b.is31() {
		m.set("nullable", boolNode(true))
	}

	if len(s.Enum) > 0 {
		enum := seqNode()
		hasNull := false
		for _, v := range s.Enum {
			if v == nil {
				hasNull = true
			}
			n, err := valueToNode(v)
			if err != nil {
				return nil, fmt.Errorf("enum: %w", err)
			}
			enum.Content = append(enum.Content, n)
		}
		if nullable && b.is31() && !hasNull {
			enum.Content = append(enum.Content, nullNode())
		}
		m.set("enum", enum)
	}
	if s.Default != nil {
		n, err := valueToNode(s.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		m.set("default", n)
	}

	if s.Items != nil {
		items, err := b.schema(s.Items)
		if err != nil {
			return nil, err
		}
		m.set("items", items)
	}
	if len(s.Properties) > 0 {
		props := newMapping()
		for _, p := range b.orderedProperties(s.Properties) {
			pn, err := b.schema(p.Schema)
			if err != nil {
				return nil, fmt.Errorf("properties.%s: %w", p.Name, err)
			}
			props.set(p.Name, pn)
		}
		m.set("properties", props.node)
	}
	if len(s.Required) > 0 {
		required := s.Required
		if b.cfg.PropertyOrder == document.OrderLexicographic {
			required = slices.Sorted(slices.Values(s.Required))
		}
		m.set("required", strSeq(required))
	}
	if s.AdditionalProperties != nil {
		ap, err := b.schema(s.AdditionalProperties)
		if err != nil {
			return nil, err
		}
		m.set("additionalProperties", ap)
	}

	if composition {
		if err := b.composition(m, s, nullable && b.is31() && s.Type == ""); err != nil {
			return nil, err
		}
	}

	if s.Minimum != nil {
		m.set("minimum", floatNode(*s.Minimum))
	}
	if s.Maximum != nil {
		m.set("maximum", floatNode(*s.Maximum))
	}
	if s.MinLength != nil {
		m.set("minLength", intNode(*s.MinLength))
	}
	if s.MaxLength != nil {
		m.set("maxLength", intNode(*s.MaxLength))
	}
	if s.MinItems != nil {
		m.set("minItems", intNode(*s.MinItems))
	}
	if s.MaxItems != nil {
		m.set("maxItems", intNode(*s.MaxItems))
	}
	m.str("pattern", s.Pattern)
	m.boolTrue("readOnly", s.ReadOnly)
	m.boolTrue("writeOnly", s.WriteOnly)
	m.boolTrue("deprecated", s.Deprecated)
	if s.Example != nil {
		n, err := valueToNode(s.Example)
		if err != nil {
			return nil, fmt.Errorf("example: %w", err)
		}
		m.set("example", n)
	}
	return m.node, nil
}

// composition writes oneOf/allOf/anyOf. addNull adds the 3.1 null member:
// appended to oneOf/anyOf, or wrapping allOf in a oneOf with the null member.
func (b *builder) composition(m *mapping, s *document.Schema, addNull bool) error {
	var err error
	members := func(list []*document.Schema) *yaml.Node {
		seq := seqNode()
		for _, member := range list {
			n, merr := b.schema(member)
			if merr != nil {
				err = merr
				continue
			}
			seq.Content = append(seq.Content, n)
		}
		return seq
	}
	nullMember := func() *yaml.Node {
		n := newMapping()
		n.set("type", strNode("null"))
		return n.node
	}

	nullPlaced := !addNull
	if len(s.OneOf) > 0 {
		seq := members(s.OneOf)
		if !nullPlaced {
			seq.Content = append(seq.Content, nullMember())
			nullPlaced = true
		}
		m.set("oneOf", seq)
	}
	if len(s.AnyOf) > 0 {
		seq := members(s.AnyOf)
		if !nullPlaced {
			seq.Content = append(seq.Content, nullMember())
			nullPlaced = true
		}
		m.set("anyOf", seq)
	}
	if len(s.AllOf) > 0 {
		if nullPlaced {
			m.set("allOf", members(s.AllOf))
			return err
		}
		wrapped := newMapping()
		wrapped.set("allOf", members(s.AllOf))
		m.set("oneOf", seqNode(wrapped.node, nullMember()))
	}
	return err
}

func (b *builder) refSchema(s *document.Schema) *yaml.Node {
	ref := newMapping()
	ref.set("$ref", strNode(s.Ref))

	switch {
	case s.Nullable && b.is31():
		m := newMapping()
		m.str("description", s.Description)
		null := newMapping()
		null.set("type", strNode("null"))
		m.set("oneOf", seqNode(ref.node, null.node))
		return m.node
	case s.Nullable:
		m := newMapping()
		m.str("description", s.Description)
		m.set("allOf", seqNode(ref.node))
		m.set("nullable", boolNode(true))
		return m.node
	case s.Description != "" && b.is31():
		ref.str("description", s.Description)
		return ref.node
	case s.Description != "":
		m := newMapping()
		m.str("description", s.Description)
		m.set("allOf", seqNode(ref.node))
		return m.node
	default:
		return ref.node
	}
}

func (b *builder) orderedProperties(props []document.Property) []document.Property {
	if b.cfg.PropertyOrder != document.OrderLexicographic {
		return props
	}
	sorted := slices.Clone(props)
	slices.SortStableFunc(sorted, func(x, y document.Property) int {
		return strings.Compare(x.Name, y.Name)
	})
	return sorted
}
