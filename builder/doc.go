// Package builder declares OpenAPI document fragments in Go code.
//
// Schemas are derived from Go types by reflection: struct fields become
// ordered properties named by their json tags, pointers become nullable,
// and named structs are registered as components and referenced with
// "#/components/schemas/Name". The oas struct tag refines a property:
//
//	type Pet struct {
//	    ID   int64  `json:"id" oas:"description=Unique identifier"`
//	    Name string `json:"name" oas:"minLength=1"`
//	    Tag  *Tag   `json:"tag,omitempty"`
//	}
//
// Generic instantiations get a deterministic name built from the base type
// and its type arguments (see [GenericName]), so Page[Pet] and Page[Order]
// are independent components. Two instantiations that map to the same name
// with different shapes are reported as a schema conflict, never merged.
//
// Types that need a hand-written schema implement [SchemaProvider].
//
// The fragment produced by [Builder.Build] is an ordinary
// *document.Document, ready to be joined with others by the joiner package.
package builder
