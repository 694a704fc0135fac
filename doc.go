// Package oascompose composes OpenAPI documents from independently declared
// fragments.
//
// A fragment is a complete OpenAPI document describing one part of an API:
// the routes of a sub-router, a library of shared schemas, or an existing
// specification file. Fragments are built in code, parsed from JSON or YAML,
// then joined and nested into a single document that is validated, serialized
// in OpenAPI 3.0 or 3.1, and served with interactive viewers.
//
// # Packages
//
//   - document: the in-memory model, the path/operation table and the
//     frozen, shareable form of a finished document
//   - registry: ordered, idempotent named registries for component schemas
//     and security schemes
//   - builder: declares fragments in code and derives schemas from Go types,
//     including generic instantiations
//   - parser: decodes JSON or YAML documents into the model
//   - joiner: merges fragments with conflict detection and a configurable
//     duplicate-operation policy
//   - nesting: relocates a fragment under a path prefix and mounts it into a
//     parent
//   - serializer: emits deterministic JSON or YAML in the configured version
//   - validator: checks serialized documents against OpenAPI 3.0 and 3.1
//   - docserver: serves a frozen document with Swagger UI, Redoc, RapiDoc and
//     Scalar pages
//   - oaserrors: sentinel and typed errors shared by every package
//
// The oascompose command exposes join, nest, validate and serve on the
// command line, and an MCP server exposes the same operations as tools.
//
// # Quick Start
//
// Declare a fragment in code:
//
//	b := builder.New(document.Info{Title: "Users", Version: "1.0.0"})
//	b.AddOperation(document.MethodGet, "/{id}",
//		builder.WithPathParam("id", int64(0)),
//		builder.WithResponse(http.StatusOK, User{}),
//	)
//	users, err := b.Build()
//
// Mount it under a prefix next to a parsed fragment:
//
//	billing, err := parser.ParseFile("billing.yaml")
//	result, err := nesting.Nest(nil,
//		nesting.Mount{Prefix: "/api/users", Document: users, Tags: []string{"users"}},
//		nesting.Mount{Prefix: "/api/billing", Document: billing.Document},
//	)
//
// Serialize, validate and serve the result:
//
//	data, err := serializer.MarshalYAML(result.Document, result.Config)
//	report, err := validator.Validate(ctx, data, result.Config.OpenAPIVersion)
//	srv, err := docserver.New(result.Freeze(), docserver.Config{BasePath: "/docs"})
//	err = srv.Serve(ctx, ":8080", nil)
//
// # Errors
//
// Every failure wraps one of the sentinels in oaserrors, so callers can
// branch with errors.Is and extract details with errors.As:
//
//	var conflict *oaserrors.SchemaConflictError
//	if errors.As(err, &conflict) {
//		fmt.Println("conflicting schema:", conflict.Name)
//	}
package oascompose
