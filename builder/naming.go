package builder

import (
	"path"
	"reflect"
	"strings"

	"github.com/erraggy/oascompose/internal/naming"
)

// SchemaNamingStrategy defines built-in schema naming conventions.
type SchemaNamingStrategy int

const (
	// SchemaNamingTypeOnly uses just "TypeName" (default).
	// Types with the same name in different packages are disambiguated with
	// their package path.
	SchemaNamingTypeOnly SchemaNamingStrategy = iota

	// SchemaNamingPackage uses "package.TypeName".
	SchemaNamingPackage

	// SchemaNamingPascalCase uses "PackageTypeName".
	SchemaNamingPascalCase
)

// GenericNamingStrategy defines how the type arguments of a generic
// instantiation are appended to its base name.
type GenericNamingStrategy int

const (
	// GenericNamingUnderscore joins with underscores (default).
	// Example: Page[User] -> Page_User
	GenericNamingUnderscore GenericNamingStrategy = iota

	// GenericNamingOf uses "Of" between base type and arguments.
	// Example: Page[User] -> PageOfUser
	GenericNamingOf

	// GenericNamingFlattened concatenates without a separator.
	// Example: Page[User] -> PageUser
	GenericNamingFlattened
)

// anonymousTypeName is the schema name used for anonymous struct types.
const anonymousTypeName = "AnonymousType"

// SchemaNameFunc computes a schema name from a Go type. It takes priority
// over the built-in strategies.
type SchemaNameFunc func(t reflect.Type) string

type schemaNamer struct {
	strategy SchemaNamingStrategy
	generic  GenericNamingStrategy
	fn       SchemaNameFunc
}

// GenericName builds the component name of a generic instantiation from its
// base name and type arguments using the default underscore strategy.
// Package qualifiers are dropped and each argument is title-cased, so the
// result is deterministic for a given instantiation:
//
//	GenericName("Page", "models.User")        // "Page_User"
//	GenericName("Pair", "string", "int64")    // "Pair_String_Int64"
//	GenericName("Page", "List[models.User]")  // "Page_List_User"
func GenericName(base string, args ...string) string {
	return genericName(GenericNamingUnderscore, base, args)
}

func genericName(strategy GenericNamingStrategy, base string, args []string) string {
	if len(args) == 0 {
		return base
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = genericArgName(strategy, a)
	}
	switch strategy {
	case GenericNamingOf:
		return base + "Of" + strings.Join(parts, "And")
	case GenericNamingFlattened:
		return base + strings.Join(parts, "")
	default:
		return base + "_" + strings.Join(parts, "_")
	}
}

// genericArgName names one type argument, recursing into nested
// instantiations such as "List[models.User]".
func genericArgName(strategy GenericNamingStrategy, arg string) string {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "*[]")
	base := extractBaseTypeName(arg)
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}
	base = naming.ToTitleCase(base)
	return genericName(strategy, base, extractGenericParams(arg))
}

// name returns the schema name for t. Pointers are unwrapped.
func (n *schemaNamer) name(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n.fn != nil {
		if name := n.fn(t); name != "" {
			return name
		}
	}
	typeName := t.Name()
	if typeName == "" {
		return anonymousTypeName
	}
	base := genericName(n.generic, extractBaseTypeName(typeName), extractGenericParams(typeName))
	pkg := path.Base(t.PkgPath())
	if t.PkgPath() == "" {
		pkg = ""
	}

	switch n.strategy {
	case SchemaNamingPackage:
		if pkg == "" {
			return base
		}
		return pkg + "." + base
	case SchemaNamingPascalCase:
		return naming.ToPascalCase(pkg) + naming.ToPascalCase(base)
	default:
		return base
	}
}

// qualifiedName is the fallback used when two distinct types would share
// a name.
func (n *schemaNamer) qualifiedName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return sanitizePath(t.PkgPath()) + "_" + n.name(t)
}

// extractBaseTypeName returns the name before any type arguments.
// Example: "Response[User]" -> "Response"
func extractBaseTypeName(name string) string {
	if idx := strings.Index(name, "["); idx != -1 {
		return name[:idx]
	}
	return name
}

// extractGenericParams extracts type arguments, respecting nesting.
// Example: "Map[string,int]" -> ["string", "int"]
// Example: "Response[List[User]]" -> ["List[User]"]
func extractGenericParams(name string) []string {
	start := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var params []string
	var current strings.Builder
	depth := 0
	for _, r := range name[start+1 : end] {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				params = append(params, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		params = append(params, strings.TrimSpace(current.String()))
	}
	return params
}

// sanitizePath replaces characters that are awkward in a $ref.
// Example: "github.com/org/models" -> "github.com_org_models"
func sanitizePath(s string) string {
	return strings.NewReplacer("/", "_", "~", "_").Replace(s)
}
