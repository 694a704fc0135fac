package parser

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/oaserrors"
)

// maxRefDepth bounds chains of component $refs (parameters, request bodies,
// headers) that are inlined during decoding. Response references are kept.
const maxRefDepth = 32

var componentKinds = map[string]string{
	"parameters":    "parameter",
	"requestBodies": "request body",
	"responses":     "response",
	"headers":       "header",
}

type decoder struct {
	source     string
	log        Logger
	components *yaml.Node
	warnings   []string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	e := &oaserrors.ParseError{Path: d.source, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

func (d *decoder) warnf(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// pairs iterates the key/value pairs of a mapping node in source order.
func pairs(n *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		n = resolveAlias(n)
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if !yield(n.Content[i].Value, resolveAlias(n.Content[i+1])) {
				return
			}
		}
	}
}

func field(n *yaml.Node, key string) *yaml.Node {
	for k, v := range pairs(n) {
		if k == key {
			return v
		}
	}
	return nil
}

func (d *decoder) expectMapping(n *yaml.Node, what string) error {
	if n.Kind != yaml.MappingNode {
		return d.errorf(n, "%s must be an object", what)
	}
	return nil
}

func (d *decoder) str(n *yaml.Node, key string) (string, error) {
	v := field(n, key)
	if v == nil {
		return "", nil
	}
	if v.Kind != yaml.ScalarNode {
		return "", d.errorf(v, "%q must be a string", key)
	}
	return v.Value, nil
}

func (d *decoder) boolean(n *yaml.Node, key string) (bool, error) {
	v := field(n, key)
	if v == nil {
		return false, nil
	}
	b, err := strconv.ParseBool(v.Value)
	if v.Kind != yaml.ScalarNode || err != nil {
		return false, d.errorf(v, "%q must be a boolean", key)
	}
	return b, nil
}

func (d *decoder) intPtr(n *yaml.Node, key string) (*int, error) {
	v := field(n, key)
	if v == nil {
		return nil, nil
	}
	i, err := strconv.Atoi(v.Value)
	if v.Kind != yaml.ScalarNode || err != nil {
		return nil, d.errorf(v, "%q must be an integer", key)
	}
	return &i, nil
}

func (d *decoder) floatPtr(n *yaml.Node, key string) (*float64, error) {
	v := field(n, key)
	if v == nil {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v.Value, 64)
	if v.Kind != yaml.ScalarNode || err != nil {
		return nil, d.errorf(v, "%q must be a number", key)
	}
	return &f, nil
}

func (d *decoder) strList(n *yaml.Node, key string) ([]string, error) {
	v := field(n, key)
	if v == nil {
		return nil, nil
	}
	if v.Kind != yaml.SequenceNode {
		return nil, d.errorf(v, "%q must be an array of strings", key)
	}
	out := make([]string, 0, len(v.Content))
	for _, item := range v.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode {
			return nil, d.errorf(item, "%q must be an array of strings", key)
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// value converts a free-form node into plain Go values: map[string]any,
// []any, string, bool, int, float64 or nil.
func (d *decoder) value(n *yaml.Node) (any, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for k, v := range pairs(n) {
			val, err := d.value(v)
			if err != nil {
				return nil, err
			}
			m[k] = val
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := d.value(item)
			if err != nil {
				return nil, err
			}
			s = append(s, val)
		}
		return s, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			return strconv.ParseBool(n.Value)
		case "!!int":
			if i, err := strconv.Atoi(n.Value); err == nil {
				return i, nil
			}
			return strconv.ParseFloat(n.Value, 64)
		case "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return nil, d.errorf(n, "invalid number %q", n.Value)
			}
			if f == math.Trunc(f) && math.Abs(f) < 1e15 {
				return int(f), nil
			}
			return f, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, d.errorf(n, "unsupported value")
	}
}

func (d *decoder) optionalValue(n *yaml.Node, key string) (any, error) {
	v := field(n, key)
	if v == nil {
		return nil, nil
	}
	return d.value(v)
}

func (d *decoder) extensions(n *yaml.Node) (map[string]any, error) {
	var ext map[string]any
	for k, v := range pairs(n) {
		if !strings.HasPrefix(k, "x-") {
			continue
		}
		val, err := d.value(v)
		if err != nil {
			return nil, err
		}
		if ext == nil {
			ext = make(map[string]any)
		}
		ext[k] = val
	}
	return ext, nil
}

func (d *decoder) document(n *yaml.Node, root string) (*ParseResult, error) {
	if err := d.expectMapping(n, "document"); err != nil {
		return nil, err
	}
	if sw := field(n, "swagger"); sw != nil {
		return nil, d.errorf(sw, "swagger %s documents are not supported; convert to OpenAPI 3 first", sw.Value)
	}
	raw, err := d.str(n, "openapi")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, d.errorf(n, "missing required field \"openapi\"")
	}
	version, err := document.ParseVersion(raw)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: d.source, Message: "unsupported openapi version " + strconv.Quote(raw), Cause: err}
	}

	d.components = field(n, "components")
	if d.components != nil {
		if err := d.expectMapping(d.components, "components"); err != nil {
			return nil, err
		}
	}

	infoNode := field(n, "info")
	if infoNode == nil {
		return nil, d.errorf(n, "missing required field \"info\"")
	}
	info, err := d.info(infoNode)
	if err != nil {
		return nil, err
	}
	doc := document.NewWithRoot(info, root)

	if servers := field(n, "servers"); servers != nil {
		if servers.Kind != yaml.SequenceNode {
			return nil, d.errorf(servers, "\"servers\" must be an array")
		}
		for _, s := range servers.Content {
			s = resolveAlias(s)
			url, err := d.str(s, "url")
			if err != nil {
				return nil, err
			}
			desc, err := d.str(s, "description")
			if err != nil {
				return nil, err
			}
			doc.Servers = append(doc.Servers, document.Server{URL: url, Description: desc})
		}
	}

	if err := d.componentSchemas(doc); err != nil {
		return nil, err
	}
	if err := d.componentResponses(doc); err != nil {
		return nil, err
	}
	if err := d.componentSecuritySchemes(doc); err != nil {
		return nil, err
	}

	if paths := field(n, "paths"); paths != nil {
		if err := d.paths(doc, paths); err != nil {
			return nil, err
		}
	}

	if sec := field(n, "security"); sec != nil {
		if doc.Security, err = d.security(sec); err != nil {
			return nil, err
		}
	}

	if tags := field(n, "tags"); tags != nil {
		if tags.Kind != yaml.SequenceNode {
			return nil, d.errorf(tags, "\"tags\" must be an array")
		}
		for _, t := range tags.Content {
			t = resolveAlias(t)
			name, err := d.str(t, "name")
			if err != nil {
				return nil, err
			}
			if name == "" {
				return nil, d.errorf(t, "tag without a name")
			}
			desc, err := d.str(t, "description")
			if err != nil {
				return nil, err
			}
			if !doc.AddTag(document.Tag{Name: name, Description: desc}) {
				d.warnf("tag %q declared twice with different descriptions; keeping the first", name)
			}
		}
	}

	if doc.Extensions, err = d.extensions(n); err != nil {
		return nil, err
	}
	if field(n, "webhooks") != nil {
		d.warnf("webhooks are not supported and were dropped")
	}

	return &ParseResult{
		SourcePath: d.source,
		Version:    raw,
		OASVersion: version,
		Document:   doc,
		Warnings:   d.warnings,
	}, nil
}

func (d *decoder) info(n *yaml.Node) (document.Info, error) {
	var info document.Info
	if err := d.expectMapping(n, "info"); err != nil {
		return info, err
	}
	var err error
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"title", &info.Title},
		{"version", &info.Version},
		{"summary", &info.Summary},
		{"description", &info.Description},
		{"termsOfService", &info.TermsOfService},
	} {
		if *f.dst, err = d.str(n, f.key); err != nil {
			return info, err
		}
	}
	if c := field(n, "contact"); c != nil {
		contact := &document.Contact{}
		if contact.Name, err = d.str(c, "name"); err != nil {
			return info, err
		}
		if contact.URL, err = d.str(c, "url"); err != nil {
			return info, err
		}
		if contact.Email, err = d.str(c, "email"); err != nil {
			return info, err
		}
		info.Contact = contact
	}
	if l := field(n, "license"); l != nil {
		license := &document.License{}
		if license.Name, err = d.str(l, "name"); err != nil {
			return info, err
		}
		if license.Identifier, err = d.str(l, "identifier"); err != nil {
			return info, err
		}
		if license.URL, err = d.str(l, "url"); err != nil {
			return info, err
		}
		info.License = license
	}
	return info, nil
}

func (d *decoder) componentSchemas(doc *document.Document) error {
	schemas := field(d.components, "schemas")
	if schemas == nil {
		return nil
	}
	if err := d.expectMapping(schemas, "components.schemas"); err != nil {
		return err
	}
	for name, sn := range pairs(schemas) {
		s, err := d.schema(sn)
		if err != nil {
			return err
		}
		if err := doc.RegisterSchema(document.SchemaEntry{Name: name, Schema: s}); err != nil {
			return &oaserrors.ParseError{Path: d.source, Line: sn.Line, Message: "component schema " + strconv.Quote(name), Cause: err}
		}
		d.log.Debug("decoded component schema", "name", name, "kind", s.Kind().String())
	}
	return nil
}

func (d *decoder) componentResponses(doc *document.Document) error {
	responses := field(d.components, "responses")
	if responses == nil {
		return nil
	}
	if err := d.expectMapping(responses, "components.responses"); err != nil {
		return err
	}
	for name, rn := range pairs(responses) {
		r, err := d.response(rn)
		if err != nil {
			return err
		}
		if err := doc.RegisterResponse(name, r); err != nil {
			return &oaserrors.ParseError{Path: d.source, Line: rn.Line, Message: "component response " + strconv.Quote(name), Cause: err}
		}
	}
	return nil
}

func (d *decoder) componentSecuritySchemes(doc *document.Document) error {
	schemes := field(d.components, "securitySchemes")
	if schemes == nil {
		return nil
	}
	if err := d.expectMapping(schemes, "components.securitySchemes"); err != nil {
		return err
	}
	for name, sn := range pairs(schemes) {
		s, err := d.securityScheme(sn)
		if err != nil {
			return err
		}
		if err := doc.RegisterSecurityScheme(name, s); err != nil {
			return &oaserrors.ParseError{Path: d.source, Line: sn.Line, Message: "security scheme " + strconv.Quote(name), Cause: err}
		}
	}
	return nil
}

func (d *decoder) securityScheme(n *yaml.Node) (*document.SecurityScheme, error) {
	if err := d.expectMapping(n, "security scheme"); err != nil {
		return nil, err
	}
	s := &document.SecurityScheme{}
	var err error
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"type", &s.Type},
		{"description", &s.Description},
		{"name", &s.Name},
		{"in", &s.In},
		{"scheme", &s.Scheme},
		{"bearerFormat", &s.BearerFormat},
		{"openIdConnectUrl", &s.OpenIDConnectURL},
	} {
		if *f.dst, err = d.str(n, f.key); err != nil {
			return nil, err
		}
	}
	if s.Type == "" {
		return nil, d.errorf(n, "security scheme without a type")
	}
	if flows := field(n, "flows"); flows != nil {
		s.Flows = &document.OAuthFlows{}
		for _, f := range []struct {
			key string
			dst **document.OAuthFlow
		}{
			{"implicit", &s.Flows.Implicit},
			{"password", &s.Flows.Password},
			{"clientCredentials", &s.Flows.ClientCredentials},
			{"authorizationCode", &s.Flows.AuthorizationCode},
		} {
			fn := field(flows, f.key)
			if fn == nil {
				continue
			}
			flow := &document.OAuthFlow{}
			if flow.AuthorizationURL, err = d.str(fn, "authorizationUrl"); err != nil {
				return nil, err
			}
			if flow.TokenURL, err = d.str(fn, "tokenUrl"); err != nil {
				return nil, err
			}
			if flow.RefreshURL, err = d.str(fn, "refreshUrl"); err != nil {
				return nil, err
			}
			for scope, desc := range pairs(field(fn, "scopes")) {
				if flow.Scopes == nil {
					flow.Scopes = make(map[string]string)
				}
				flow.Scopes[scope] = desc.Value
			}
			*f.dst = flow
		}
	}
	return s, nil
}

func (d *decoder) security(n *yaml.Node) ([]document.SecurityRequirement, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "\"security\" must be an array")
	}
	reqs := make([]document.SecurityRequirement, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		if err := d.expectMapping(item, "security requirement"); err != nil {
			return nil, err
		}
		req := document.SecurityRequirement{}
		for name := range pairs(item) {
			scopes, err := d.strList(item, name)
			if err != nil {
				return nil, err
			}
			if scopes == nil {
				scopes = []string{}
			}
			req[name] = scopes
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (d *decoder) paths(doc *document.Document, n *yaml.Node) error {
	if err := d.expectMapping(n, "paths"); err != nil {
		return err
	}
	for path, item := range pairs(n) {
		if strings.HasPrefix(path, "x-") {
			continue
		}
		if err := d.expectMapping(item, "path item "+path); err != nil {
			return err
		}
		if field(item, "$ref") != nil {
			d.warnf("path item %s uses $ref, which is not supported; skipped", path)
			continue
		}
		var shared []*document.Parameter
		if pn := field(item, "parameters"); pn != nil {
			var err error
			if shared, err = d.parameters(pn); err != nil {
				return err
			}
		}
		for key, on := range pairs(item) {
			switch key {
			case "parameters", "summary", "description", "servers":
				continue
			}
			if strings.HasPrefix(key, "x-") {
				continue
			}
			method, err := document.ParseMethod(key)
			if err != nil {
				d.warnf("unknown path item field %q under %s ignored", key, path)
				continue
			}
			op, err := d.operation(on)
			if err != nil {
				return err
			}
			op.Path, op.Method = path, method
			for _, p := range shared {
				if _, ok := op.Parameter(p.Name, p.In); !ok {
					op.Parameters = append(op.Parameters, p)
				}
			}
			if err := doc.AddOperation(op, document.PolicyReject); err != nil {
				return &oaserrors.ParseError{Path: d.source, Line: on.Line, Column: on.Column, Message: "operation " + string(method) + " " + path, Cause: err}
			}
		}
	}
	return nil
}

func (d *decoder) operation(n *yaml.Node) (*document.OperationEntry, error) {
	if err := d.expectMapping(n, "operation"); err != nil {
		return nil, err
	}
	op := &document.OperationEntry{}
	var err error
	if op.Tags, err = d.strList(n, "tags"); err != nil {
		return nil, err
	}
	if op.Summary, err = d.str(n, "summary"); err != nil {
		return nil, err
	}
	if op.Description, err = d.str(n, "description"); err != nil {
		return nil, err
	}
	if op.OperationID, err = d.str(n, "operationId"); err != nil {
		return nil, err
	}
	if op.Deprecated, err = d.boolean(n, "deprecated"); err != nil {
		return nil, err
	}
	if pn := field(n, "parameters"); pn != nil {
		if op.Parameters, err = d.parameters(pn); err != nil {
			return nil, err
		}
	}
	if rb := field(n, "requestBody"); rb != nil {
		if op.RequestBody, err = d.requestBody(rb); err != nil {
			return nil, err
		}
	}
	if rn := field(n, "responses"); rn != nil {
		if err := d.expectMapping(rn, "responses"); err != nil {
			return nil, err
		}
		op.Responses = make(map[string]*document.Response)
		for code, resp := range pairs(rn) {
			if strings.HasPrefix(code, "x-") {
				continue
			}
			r, err := d.response(resp)
			if err != nil {
				return nil, err
			}
			op.Responses[code] = r
		}
	}
	if sec := field(n, "security"); sec != nil {
		if op.Security, err = d.security(sec); err != nil {
			return nil, err
		}
	}
	if field(n, "callbacks") != nil {
		d.warnf("callbacks on operation %q are not supported and were dropped", op.OperationID)
	}
	if op.Extensions, err = d.extensions(n); err != nil {
		return nil, err
	}
	return op, nil
}

// component resolves a local "#/components/<kind>/<name>" reference when n is
// a $ref object; otherwise it returns n unchanged.
func (d *decoder) component(n *yaml.Node, kind string) (*yaml.Node, error) {
	for depth := 0; ; depth++ {
		ref := field(n, "$ref")
		if ref == nil {
			return n, nil
		}
		if depth >= maxRefDepth {
			return nil, d.errorf(ref, "reference chain too deep at %s", ref.Value)
		}
		prefix := "#/components/" + kind + "/"
		name, ok := strings.CutPrefix(ref.Value, prefix)
		if !ok || name == "" || strings.Contains(name, "/") {
			return nil, d.errorf(ref, "unsupported reference %q; expected %s<name>", ref.Value, prefix)
		}
		target := field(field(d.components, kind), name)
		if target == nil {
			return nil, &oaserrors.ParseError{
				Path:    d.source,
				Line:    ref.Line,
				Column:  ref.Column,
				Message: "unresolved reference",
				Cause:   &oaserrors.DanglingReferenceError{Ref: ref.Value, Missing: name, Kind: componentKinds[kind]},
			}
		}
		n = target
	}
}

func (d *decoder) parameters(n *yaml.Node) ([]*document.Parameter, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "\"parameters\" must be an array")
	}
	params := make([]*document.Parameter, 0, len(n.Content))
	for _, item := range n.Content {
		pn, err := d.component(resolveAlias(item), "parameters")
		if err != nil {
			return nil, err
		}
		p, err := d.parameter(pn)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (d *decoder) parameter(n *yaml.Node) (*document.Parameter, error) {
	if err := d.expectMapping(n, "parameter"); err != nil {
		return nil, err
	}
	p := &document.Parameter{}
	var err error
	if p.Name, err = d.str(n, "name"); err != nil {
		return nil, err
	}
	in, err := d.str(n, "in")
	if err != nil {
		return nil, err
	}
	p.In = document.ParameterLocation(in)
	if p.Name == "" || !p.In.Valid() {
		return nil, d.errorf(n, "parameter needs a name and a location of path, query, header or cookie")
	}
	if err := d.headerFields(n, p); err != nil {
		return nil, err
	}
	if p.Example, err = d.optionalValue(n, "example"); err != nil {
		return nil, err
	}
	return p, nil
}

// headerFields decodes the fields shared by parameters and response headers.
func (d *decoder) headerFields(n *yaml.Node, p *document.Parameter) error {
	var err error
	if p.Description, err = d.str(n, "description"); err != nil {
		return err
	}
	if p.Required, err = d.boolean(n, "required"); err != nil {
		return err
	}
	if p.Deprecated, err = d.boolean(n, "deprecated"); err != nil {
		return err
	}
	if sn := field(n, "schema"); sn != nil {
		if p.Schema, err = d.schema(sn); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) requestBody(n *yaml.Node) (*document.RequestBody, error) {
	n, err := d.component(n, "requestBodies")
	if err != nil {
		return nil, err
	}
	if err := d.expectMapping(n, "requestBody"); err != nil {
		return nil, err
	}
	rb := &document.RequestBody{}
	if rb.Description, err = d.str(n, "description"); err != nil {
		return nil, err
	}
	if rb.Required, err = d.boolean(n, "required"); err != nil {
		return nil, err
	}
	if rb.Content, err = d.content(field(n, "content")); err != nil {
		return nil, err
	}
	return rb, nil
}

// response decodes an inline response. A "#/components/responses/{name}"
// reference is kept as a reference once its target is known to exist.
func (d *decoder) response(n *yaml.Node) (*document.Response, error) {
	if err := d.expectMapping(n, "response"); err != nil {
		return nil, err
	}
	if ref := field(n, "$ref"); ref != nil {
		name, ok := strings.CutPrefix(ref.Value, "#/components/responses/")
		if !ok || name == "" || strings.Contains(name, "/") {
			return nil, d.errorf(ref, "unsupported reference %q; expected #/components/responses/<name>", ref.Value)
		}
		if field(field(d.components, "responses"), name) == nil {
			return nil, &oaserrors.ParseError{
				Path:    d.source,
				Line:    ref.Line,
				Column:  ref.Column,
				Message: "unresolved reference",
				Cause:   &oaserrors.DanglingReferenceError{Ref: ref.Value, Missing: name, Kind: componentKinds["responses"]},
			}
		}
		return &document.Response{Ref: ref.Value}, nil
	}
	r := &document.Response{}
	var err error
	if r.Description, err = d.str(n, "description"); err != nil {
		return nil, err
	}
	for name, hn := range pairs(field(n, "headers")) {
		hn, err := d.component(hn, "headers")
		if err != nil {
			return nil, err
		}
		h := &document.Parameter{Name: name, In: document.InHeader}
		if err := d.headerFields(hn, h); err != nil {
			return nil, err
		}
		if r.Headers == nil {
			r.Headers = make(map[string]*document.Parameter)
		}
		r.Headers[name] = h
	}
	if r.Content, err = d.content(field(n, "content")); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *decoder) content(n *yaml.Node) (map[string]*document.MediaType, error) {
	if n == nil {
		return nil, nil
	}
	if err := d.expectMapping(n, "content"); err != nil {
		return nil, err
	}
	content := make(map[string]*document.MediaType)
	for ct, mn := range pairs(n) {
		mt := &document.MediaType{}
		if sn := field(mn, "schema"); sn != nil {
			s, err := d.schema(sn)
			if err != nil {
				return nil, err
			}
			mt.Schema = s
		}
		ex, err := d.optionalValue(mn, "example")
		if err != nil {
			return nil, err
		}
		mt.Example = ex
		content[ct] = mt
	}
	return content, nil
}
