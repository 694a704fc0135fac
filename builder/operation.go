package builder

import (
	"maps"
	"net/http"
	"slices"
	"strconv"

	"github.com/erraggy/oascompose/document"
	"github.com/erraggy/oascompose/internal/maputil"
	"github.com/erraggy/oascompose/internal/pathutil"
)

const defaultContentType = "application/json"

// parameterBuilder holds a parameter whose schema is derived when the
// operation is added.
type parameterBuilder struct {
	param *document.Parameter
	pType any
}

type requestBodyBuilder struct {
	body        *document.RequestBody
	contentType string
	bType       any
}

type responseBuilder struct {
	// ref names a reusable response; the other fields are unused when set.
	ref         string
	response    *document.Response
	contentType string
	rType       any
	headers     []*parameterBuilder
}

// operationConfig holds the configuration for building an operation.
type operationConfig struct {
	operationID string
	summary     string
	description string
	tags        []string
	deprecated  bool
	parameters  []*parameterBuilder
	requestBody *requestBodyBuilder
	responses   map[string]*responseBuilder
	security    []document.SecurityRequirement
	extensions  map[string]any
}

// OperationOption configures an operation.
type OperationOption func(*operationConfig)

// WithOperationID sets the operation ID. IDs must be unique per builder.
func WithOperationID(id string) OperationOption {
	return func(cfg *operationConfig) {
		cfg.operationID = id
	}
}

// WithSummary sets the operation summary.
func WithSummary(summary string) OperationOption {
	return func(cfg *operationConfig) {
		cfg.summary = summary
	}
}

// WithDescription sets the operation description.
func WithDescription(desc string) OperationOption {
	return func(cfg *operationConfig) {
		cfg.description = desc
	}
}

// WithTags adds tags to the operation.
func WithTags(tags ...string) OperationOption {
	return func(cfg *operationConfig) {
		cfg.tags = append(cfg.tags, tags...)
	}
}

// WithDeprecated marks the operation as deprecated.
func WithDeprecated(deprecated bool) OperationOption {
	return func(cfg *operationConfig) {
		cfg.deprecated = deprecated
	}
}

// WithSecurity sets the operation's security requirements.
func WithSecurity(requirements ...document.SecurityRequirement) OperationOption {
	return func(cfg *operationConfig) {
		cfg.security = append(cfg.security, requirements...)
	}
}

// WithOperationExtension adds an x-* extension to the operation.
func WithOperationExtension(key string, value any) OperationOption {
	return func(cfg *operationConfig) {
		if cfg.extensions == nil {
			cfg.extensions = make(map[string]any)
		}
		cfg.extensions[key] = value
	}
}

// WithParameter adds a fully described parameter.
func WithParameter(param *document.Parameter) OperationOption {
	return func(cfg *operationConfig) {
		cfg.parameters = append(cfg.parameters, &parameterBuilder{param: param})
	}
}

// ParamOption configures a parameter.
type ParamOption func(*document.Parameter)

// WithParamDescription sets the parameter description.
func WithParamDescription(desc string) ParamOption {
	return func(p *document.Parameter) {
		p.Description = desc
	}
}

// WithParamRequired sets whether the parameter is required.
// Path parameters are always required.
func WithParamRequired(required bool) ParamOption {
	return func(p *document.Parameter) {
		p.Required = required
	}
}

// WithParamDeprecated marks the parameter as deprecated.
func WithParamDeprecated(deprecated bool) ParamOption {
	return func(p *document.Parameter) {
		p.Deprecated = deprecated
	}
}

// WithParamExample sets an example value.
func WithParamExample(example any) ParamOption {
	return func(p *document.Parameter) {
		p.Example = example
	}
}

func withParam(in document.ParameterLocation, name string, paramType any, opts []ParamOption) OperationOption {
	return func(cfg *operationConfig) {
		p := &document.Parameter{Name: name, In: in}
		for _, opt := range opts {
			opt(p)
		}
		if in == document.InPath {
			p.Required = true
		}
		cfg.parameters = append(cfg.parameters, &parameterBuilder{param: p, pType: paramType})
	}
}

// WithPathParam adds a path parameter whose schema is derived from paramType.
func WithPathParam(name string, paramType any, opts ...ParamOption) OperationOption {
	return withParam(document.InPath, name, paramType, opts)
}

// WithQueryParam adds a query parameter whose schema is derived from paramType.
func WithQueryParam(name string, paramType any, opts ...ParamOption) OperationOption {
	return withParam(document.InQuery, name, paramType, opts)
}

// WithHeaderParam adds a header parameter whose schema is derived from paramType.
func WithHeaderParam(name string, paramType any, opts ...ParamOption) OperationOption {
	return withParam(document.InHeader, name, paramType, opts)
}

// WithCookieParam adds a cookie parameter whose schema is derived from paramType.
func WithCookieParam(name string, paramType any, opts ...ParamOption) OperationOption {
	return withParam(document.InCookie, name, paramType, opts)
}

// RequestBodyOption configures a request body.
type RequestBodyOption func(*requestBodyBuilder)

// WithRequired sets whether the request body is required.
func WithRequired(required bool) RequestBodyOption {
	return func(rb *requestBodyBuilder) {
		rb.body.Required = required
	}
}

// WithRequestDescription sets the request body description.
func WithRequestDescription(desc string) RequestBodyOption {
	return func(rb *requestBodyBuilder) {
		rb.body.Description = desc
	}
}

// WithRequestBody sets the request body. An empty contentType means
// application/json.
func WithRequestBody(contentType string, bodyType any, opts ...RequestBodyOption) OperationOption {
	return func(cfg *operationConfig) {
		if contentType == "" {
			contentType = defaultContentType
		}
		rb := &requestBodyBuilder{
			body:        &document.RequestBody{Required: true},
			contentType: contentType,
			bType:       bodyType,
		}
		for _, opt := range opts {
			opt(rb)
		}
		cfg.requestBody = rb
	}
}

// ResponseOption configures a response.
type ResponseOption func(*responseBuilder)

// WithResponseDescription sets the response description. The default is the
// HTTP status text.
func WithResponseDescription(desc string) ResponseOption {
	return func(rb *responseBuilder) {
		rb.response.Description = desc
	}
}

// WithResponseContentType sets the response content type.
func WithResponseContentType(contentType string) ResponseOption {
	return func(rb *responseBuilder) {
		rb.contentType = contentType
	}
}

// WithResponseHeader adds a response header whose schema is derived from
// headerType.
func WithResponseHeader(name string, headerType any, opts ...ParamOption) ResponseOption {
	return func(rb *responseBuilder) {
		h := &document.Parameter{Name: name, In: document.InHeader}
		for _, opt := range opts {
			opt(h)
		}
		rb.headers = append(rb.headers, &parameterBuilder{param: h, pType: headerType})
	}
}

func withResponse(code string, defaultDesc string, responseType any, opts []ResponseOption) OperationOption {
	return func(cfg *operationConfig) {
		rb := &responseBuilder{
			response:    &document.Response{Description: defaultDesc},
			contentType: defaultContentType,
			rType:       responseType,
		}
		for _, opt := range opts {
			opt(rb)
		}
		if cfg.responses == nil {
			cfg.responses = make(map[string]*responseBuilder)
		}
		cfg.responses[code] = rb
	}
}

// WithResponse adds a response for statusCode. A nil responseType declares
// a response without content.
func WithResponse(statusCode int, responseType any, opts ...ResponseOption) OperationOption {
	return withResponse(strconv.Itoa(statusCode), http.StatusText(statusCode), responseType, opts)
}

// WithDefaultResponse adds the "default" response.
func WithDefaultResponse(responseType any, opts ...ResponseOption) OperationOption {
	return withResponse("default", "Unexpected error", responseType, opts)
}

// WithResponseRef answers statusCode with the reusable response name,
// registered with [Builder.AddResponse].
func WithResponseRef(statusCode int, name string) OperationOption {
	return WithResponseCodeRef(strconv.Itoa(statusCode), name)
}

// WithResponseCodeRef is WithResponseRef for a status code pattern such as
// "4XX" or "default".
func WithResponseCodeRef(code, name string) OperationOption {
	return func(cfg *operationConfig) {
		if cfg.responses == nil {
			cfg.responses = make(map[string]*responseBuilder)
		}
		cfg.responses[code] = &responseBuilder{ref: name}
	}
}

// AddResponse registers a reusable response under components.responses.
// Operations point at it with [WithResponseRef].
func (b *Builder) AddResponse(name, description string, responseType any, opts ...ResponseOption) *Builder {
	rb := &responseBuilder{
		response:    &document.Response{Description: description},
		contentType: defaultContentType,
		rType:       responseType,
	}
	for _, opt := range opts {
		opt(rb)
	}
	if err := b.doc.RegisterResponse(name, b.response(rb)); err != nil {
		b.errors = append(b.errors, &BuilderError{Component: ComponentResponse, Path: name, Cause: err})
		return b
	}
	b.logger.Debug("registered response", "name", name)
	return b
}

func (b *Builder) response(rb *responseBuilder) *document.Response {
	if rb.ref != "" {
		return document.NewResponseRef(rb.ref)
	}
	resp := *rb.response
	if rb.rType != nil {
		resp.Content = map[string]*document.MediaType{rb.contentType: {Schema: b.schemaFor(rb.rType)}}
	}
	for _, hb := range rb.headers {
		if resp.Headers == nil {
			resp.Headers = make(map[string]*document.Parameter)
		}
		h := b.parameter(hb)
		resp.Headers[h.Name] = h
	}
	return &resp
}

// AddOperation declares an operation. Path parameters that appear in the
// template but were not declared are added as required strings; a declared
// path parameter missing from the template is an error.
func (b *Builder) AddOperation(method document.HTTPMethod, path string, opts ...OperationOption) *Builder {
	cfg := &operationConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.operationID != "" {
		if first, dup := b.operationIDs[cfg.operationID]; dup {
			b.errors = append(b.errors, NewDuplicateOperationIDError(cfg.operationID, string(method), path, &first))
		} else {
			b.operationIDs[cfg.operationID] = operationLocation{Method: string(method), Path: path}
		}
	}

	op := &document.OperationEntry{
		Path:        path,
		Method:      method,
		OperationID: cfg.operationID,
		Summary:     cfg.summary,
		Description: cfg.description,
		Deprecated:  cfg.deprecated,
		Security:    cfg.security,
		Extensions:  maps.Clone(cfg.extensions),
	}
	op.AddTags(cfg.tags...)

	templateParams := pathutil.TemplateParams(path)
	for _, pb := range cfg.parameters {
		p := b.parameter(pb)
		if p.In == document.InPath && !slices.Contains(templateParams, p.Name) {
			b.errors = append(b.errors, NewPathParamError(string(method), path, p.Name, "is not in the path template"))
			continue
		}
		op.Parameters = append(op.Parameters, p)
	}
	for _, name := range templateParams {
		if _, ok := op.Parameter(name, document.InPath); !ok {
			op.Parameters = append(op.Parameters, &document.Parameter{
				Name: name, In: document.InPath, Required: true,
				Schema: document.NewPrimitive("string", ""),
			})
		}
	}

	if rb := cfg.requestBody; rb != nil {
		body := *rb.body
		body.Content = map[string]*document.MediaType{rb.contentType: {Schema: b.schemaFor(rb.bType)}}
		op.RequestBody = &body
	}

	if len(cfg.responses) > 0 {
		op.Responses = make(map[string]*document.Response, len(cfg.responses))
	}
	for _, code := range maputil.StatusCodes(cfg.responses) {
		op.Responses[code] = b.response(cfg.responses[code])
	}

	if err := b.doc.AddOperation(op, document.PolicyReject); err != nil {
		b.errors = append(b.errors, &BuilderError{
			Component:   ComponentOperation,
			Method:      string(method),
			Path:        path,
			OperationID: cfg.operationID,
			Cause:       err,
		})
	}
	return b
}

func (b *Builder) parameter(pb *parameterBuilder) *document.Parameter {
	p := *pb.param
	if pb.pType != nil {
		p.Schema = b.schemaFor(pb.pType)
	} else if p.Schema == nil {
		p.Schema = document.NewPrimitive("string", "")
	}
	return &p
}
