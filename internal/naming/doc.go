// Package naming converts identifiers between casing conventions.
//
// The builder package uses it to derive component schema names from Go type
// names and to format the type arguments of generic instantiations.
package naming
