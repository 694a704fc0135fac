// Package nesting mounts complete child documents under a path prefix.
//
// [Relocate] is a pure rewrite: it returns a copy of the child whose
// operation paths carry the prefix and whose operations carry any extra
// tags. [Nest] relocates several children and joins them into a parent
// document with the joiner package, so schema conflicts between children
// are reported exactly as they are for a plain join.
//
//	users, _ := parser.ParseFile("users.yaml")
//	result, err := nesting.Nest(gateway,
//	    nesting.Mount{Prefix: "/v1/users", Document: users.Document, Tags: []string{"users"}},
//	)
//
// Prefixes are normalized before use: a missing leading slash is added, a
// trailing slash is dropped and "" or "/" mean no prefix at all.
package nesting
