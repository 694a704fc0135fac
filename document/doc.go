// Package document defines the version-neutral OpenAPI document model that
// oascompose assembles: schema entries, operations, tags, security schemes
// and the document that owns them.
//
// A [Document] holds a schema registry and a security scheme registry (see
// package registry) and a [Table] of operations keyed by (path, method).
// Nothing in this package knows about JSON or YAML; package serializer
// renders a document for a chosen [Config].
//
// # Building a document
//
//	doc := document.New(document.Info{Title: "Pets", Version: "1.0.0"})
//	_ = doc.RegisterSchema(document.SchemaEntry{
//	    Name:   "Pet",
//	    Schema: document.NewObject().WithProperty("name", document.NewPrimitive("string", ""), true),
//	})
//	_ = doc.AddOperation(&document.OperationEntry{
//	    Path:   "/pets",
//	    Method: document.MethodGet,
//	    Responses: map[string]*document.Response{
//	        "200": {Description: "ok", Content: map[string]*document.MediaType{
//	            "application/json": {Schema: document.NewArray(document.NewRef("Pet"))},
//	        }},
//	    },
//	}, document.PolicyReject)
//
// # Serving
//
// [Freeze] produces a [Frozen] handle: an immutable snapshot that can be
// read from many goroutines and caches its rendered bytes.
package document
