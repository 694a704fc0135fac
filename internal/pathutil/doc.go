// Package pathutil provides path template, reference and location helpers
// shared by the document model, the nesting resolver and the CLI.
//
// # Path Templates
//
// Operation paths use OpenAPI templates with {name} placeholders:
//
//	err := pathutil.ValidateTemplate("/users/{id}")   // nil
//	pathutil.JoinPath("/api/", "/users")              // "/api/users"
//	pathutil.RouteToTemplate("/users/:id")            // "/users/{id}"
//
// # Reference Builders
//
//	ref := pathutil.SchemaRef("Pet")             // "#/components/schemas/Pet"
//	name, ok := pathutil.SchemaRefName(ref)      // "Pet", true
//
// # Locations
//
// [Location] uses push/pop semantics to build dotted locations such as
// "paths./users.get.responses.200" while walking a document. Use [Get] and
// [Put] to reuse pooled instances.
package pathutil
